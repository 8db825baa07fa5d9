// Package identity models the caller of a storefront request: either a
// registered user proven by a JWT, or an anonymous guest identified by a
// session cookie.
package identity

import "github.com/google/uuid"

// Actor is the resolved caller for a request. Exactly one of the two
// identities is set; Kind discriminates.
type Actor struct {
	Kind       Kind
	UserID     uuid.UUID
	GuestToken string
}

// Kind discriminates the actor union.
type Kind string

const (
	KindAuthenticated Kind = "authenticated"
	KindAnonymous     Kind = "anonymous"
)

// Authenticated builds an actor for a logged-in user.
func Authenticated(userID uuid.UUID) Actor {
	return Actor{Kind: KindAuthenticated, UserID: userID}
}

// Anonymous builds an actor carrying an opaque guest session token. The
// token may be empty when the caller has no cookie yet.
func Anonymous(guestToken string) Actor {
	return Actor{Kind: KindAnonymous, GuestToken: guestToken}
}

// IsAuthenticated reports whether the actor is a registered user.
func (a Actor) IsAuthenticated() bool {
	return a.Kind == KindAuthenticated
}
