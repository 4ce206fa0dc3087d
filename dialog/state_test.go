package dialog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sipcore/dialogcore/sip"
)

func TestStateKindClassification(t *testing.T) {
	transitions := []State{Calling, Trying, Early, WaitAck, Confirmed, Terminated}
	for _, s := range transitions {
		require.Equal(t, KindTransition, s.Kind(), s.String())
	}
	notifications := []State{Updated, Notify, Info}
	for _, s := range notifications {
		require.Equal(t, KindNotification, s.Kind(), s.String())
	}
}

func TestStateIsConfirmed(t *testing.T) {
	require.True(t, Confirmed.IsConfirmed())
	require.False(t, WaitAck.IsConfirmed())
}

func TestEventStringIncludesTerminalStatus(t *testing.T) {
	id := ID{CallID: "c1", FromTag: "f1", ToTag: "t1"}
	status := sip.StatusDecline
	ev := terminatedEvent(id, &status)
	require.Contains(t, ev.String(), "603")
	require.Contains(t, ev.String(), "Terminated")
}

func TestEventStringWithoutTerminalStatus(t *testing.T) {
	id := ID{CallID: "c1", FromTag: "f1", ToTag: "t1"}
	ev := confirmedEvent(id, nil)
	require.Equal(t, "c1;from-tag=f1;to-tag=t1(Confirmed)", ev.String())
}
