package domain

import "errors"

// ErrNoOwner is returned when a cart operation is called without a resolved
// identity. Callers must resolve an identity before touching the store.
var ErrNoOwner = errors.New("cart owner is not resolved")

type ownerKind int

const (
	ownerNone ownerKind = iota
	ownerSession
	ownerUser
)

// Owner identifies who a cart row belongs to: an anonymous browser session
// or an authenticated user, never both.
type Owner struct {
	kind ownerKind
	id   string
}

func AnonymousOwner(sessionToken string) Owner {
	if sessionToken == "" {
		return Owner{}
	}
	return Owner{kind: ownerSession, id: sessionToken}
}

func AuthenticatedOwner(userID string) Owner {
	if userID == "" {
		return Owner{}
	}
	return Owner{kind: ownerUser, id: userID}
}

func (o Owner) IsZero() bool {
	return o.kind == ownerNone
}

// Session returns the session token when the owner is anonymous.
func (o Owner) Session() (string, bool) {
	if o.kind != ownerSession {
		return "", false
	}
	return o.id, true
}

// User returns the user id when the owner is authenticated.
func (o Owner) User() (string, bool) {
	if o.kind != ownerUser {
		return "", false
	}
	return o.id, true
}

// Columns returns the (user_id, session_id) pair as stored in cart_items.
// The unset side is the empty string.
func (o Owner) Columns() (userID, sessionID string) {
	switch o.kind {
	case ownerUser:
		return o.id, ""
	case ownerSession:
		return "", o.id
	}
	return "", ""
}

func (o Owner) String() string {
	switch o.kind {
	case ownerUser:
		return "user:" + o.id
	case ownerSession:
		return "session:" + o.id
	}
	return "none"
}
