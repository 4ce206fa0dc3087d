package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFsmHappyPath(t *testing.T) {
	f := newDialogFSM()
	require.Equal(t, fsmCalling, f.Current())

	require.NoError(t, fsmEvent(context.Background(), f, fsmEventName(Trying)))
	require.Equal(t, fsmTrying, f.Current())

	require.NoError(t, fsmEvent(context.Background(), f, fsmEventName(Early)))
	require.Equal(t, fsmEarly, f.Current())

	require.NoError(t, fsmEvent(context.Background(), f, fsmEventName(WaitAck)))
	require.Equal(t, fsmWaitAck, f.Current())

	require.NoError(t, fsmEvent(context.Background(), f, fsmEventName(Confirmed)))
	require.Equal(t, fsmConfirmed, f.Current())

	require.NoError(t, fsmEvent(context.Background(), f, fsmEventName(Terminated)))
	require.Equal(t, fsmTerminated, f.Current())
}

func TestFsmShortcutCallingDirectlyToConfirmed(t *testing.T) {
	f := newDialogFSM()
	require.NoError(t, fsmEvent(context.Background(), f, fsmEventName(Confirmed)))
	require.Equal(t, fsmConfirmed, f.Current())
}

func TestFsmNoEventNameIsNoOp(t *testing.T) {
	f := newDialogFSM()
	require.NoError(t, fsmEvent(context.Background(), f, fsmEventName(Updated)))
	require.Equal(t, fsmCalling, f.Current())
}

func TestFsmRejectsTransitionOutOfTerminated(t *testing.T) {
	f := newDialogFSM()
	require.NoError(t, fsmEvent(context.Background(), f, "terminate"))
	err := fsmEvent(context.Background(), f, "confirm")
	require.Error(t, err)
}
