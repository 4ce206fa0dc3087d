package dialog

import "github.com/google/uuid"

// NewTag generates a fresh dialog tag (to-tag, from-tag, or CANCEL/INVITE
// branch parameter) — RFC 3261 §19.3 requires at least 32 bits of
// randomness; a UUIDv4 comfortably clears that bar and needs no counter
// state shared across dialogs, matching the teacher's own switch away from
// a hand-rolled random-string generator (emiago-sipgo's own history
// replaced a local generator with satori/go.uuid for the same reason; this
// module uses the maintained google/uuid instead).
func NewTag() string {
	return uuid.NewString()
}

// branchMagicCookie marks a Via branch as RFC 3261-compliant (§8.1.1.7):
// transaction matching may rely on the branch alone only when this prefix
// is present.
const branchMagicCookie = "z9hG4bK"

// newBranch generates a fresh Via branch parameter, unique per request
// attempt (spec.md §4.GLOSSARY "Branch").
func newBranch() string {
	return branchMagicCookie + NewTag()
}
