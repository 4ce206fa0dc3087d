package dialog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdFromRequestClientRole(t *testing.T) {
	req := testInvite("fromtag123")
	id, err := idFromRequest(req, RoleClient)
	require.NoError(t, err)
	require.Equal(t, "a84b4c76e66710@atlanta.example.com", id.CallID)
	require.Equal(t, "fromtag123", id.FromTag)
	require.Equal(t, "", id.ToTag)
}

func TestIdFromRequestServerRoleSwapsTags(t *testing.T) {
	req := testInvite("peerfromtag")

	id, err := idFromRequest(req, RoleServer)
	require.NoError(t, err)
	// Server role: from_tag comes from the request's To tag (ours, still
	// empty here since we haven't tagged it), to_tag from the request's own
	// From tag (the peer's).
	require.Equal(t, "peerfromtag", id.ToTag)
	require.Equal(t, "", id.FromTag)
}

func TestIdEquality(t *testing.T) {
	a := ID{CallID: "c1", FromTag: "f1", ToTag: "t1"}
	b := ID{CallID: "c1", FromTag: "f1", ToTag: "t1"}
	c := ID{CallID: "c1", FromTag: "f1", ToTag: "t2"}
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestIdWithToTag(t *testing.T) {
	id := ID{CallID: "c1", FromTag: "f1"}
	tagged := id.withToTag("t9")
	require.Equal(t, "t9", tagged.ToTag)
	require.Equal(t, "", id.ToTag, "withToTag must not mutate the receiver")
}
