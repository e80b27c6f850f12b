// Package chat stores conversations and orchestrates the send pipeline:
// validation, attachment upload, persistence, scoring, broadcast and activity
// logging.
package chat

import (
	"github.com/tribeshub/backend/internal/errdef"
)

type ScopeKind string

const (
	ScopeDirect    ScopeKind = "user"
	ScopeCommunity ScopeKind = "community"
)

// Scope identifies one conversation: either the counterpart user of a direct
// conversation or a community.
type Scope struct {
	Kind ScopeKind
	ID   uint
}

func DirectScope(userID uint) Scope {
	return Scope{Kind: ScopeDirect, ID: userID}
}

func CommunityScope(communityID uint) Scope {
	return Scope{Kind: ScopeCommunity, ID: communityID}
}

// ParseScope maps the raw path segments of the conversation routes onto a
// scope. Anything other than "user" or "community" is rejected.
func ParseScope(kind string, id uint) (Scope, error) {
	switch ScopeKind(kind) {
	case ScopeDirect:
		return DirectScope(id), nil
	case ScopeCommunity:
		return CommunityScope(id), nil
	default:
		return Scope{}, errdef.NewBadRequest("invalid conversation type %q", kind)
	}
}
