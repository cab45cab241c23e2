package internal

import "reflect"

// Identity is the authenticated principal of a request.
type Identity interface {
	IsAuthenticated() bool
	IsSuperuser() bool
}

// IdentityFunc resolves the identity of a request.
// Returning nil means no identity is attached. A nil pointer wrapped in
// the interface, such as a (*Account)(nil) from a failed lookup, is
// treated the same way.
type IdentityFunc func(c Context) Identity

// Authenticated reports whether id is present and authenticated.
func Authenticated(id Identity) bool {
	return !isNilIdentity(id) && id.IsAuthenticated()
}

func isNilIdentity(id Identity) bool {
	if id == nil {
		return true
	}
	v := reflect.ValueOf(id)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// User is a minimal Identity.
// A User with an empty ID is anonymous.
type User struct {
	ID        string
	Superuser bool
}

// Anonymous is the identity of an unauthenticated request.
var Anonymous = User{}

func (u User) IsAuthenticated() bool { return u.ID != "" }

func (u User) IsSuperuser() bool { return u.IsAuthenticated() && u.Superuser }
