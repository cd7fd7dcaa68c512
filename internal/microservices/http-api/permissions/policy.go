package permissions

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when an anonymous actor is denied.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrForbidden is returned when an authenticated actor is denied.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// Owned is a resource with an author.
type Owned interface {
	OwnerID() string
}

// Policy decides a request. resource is nil for route-level checks.
type Policy struct {
	Name  string
	allow func(method string, actor Actor, resource Owned) bool
}

// Allows evaluates the policy.
func (p Policy) Allows(method string, actor Actor, resource Owned) bool {
	return p.allow(method, actor, resource)
}

// IsSafeMethod reports whether method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOnly permits authenticated admins (role admin or staff flag).
func AdminOnly(_ string, actor Actor) bool {
	return actor.IsAuthenticated() && actor.IsAdmin()
}

// AdminOrReadOnly permits safe methods to anyone and everything else to admins.
func AdminOrReadOnly(method string, actor Actor) bool {
	return IsSafeMethod(method) || AdminOnly(method, actor)
}

// AdminModeratorOwnerOrReadOnly permits safe methods to anyone. Unsafe
// methods need an authenticated actor who is an admin, a moderator or the
// author of resource. With a nil resource only authentication is required;
// the object-level check must then run before the change is committed.
func AdminModeratorOwnerOrReadOnly(method string, actor Actor, resource Owned) bool {
	if IsSafeMethod(method) {
		return true
	}
	if !actor.IsAuthenticated() {
		return false
	}
	if resource == nil {
		return true
	}
	return actor.IsAdmin() || actor.IsModerator() || actor.Owns(resource)
}

// Authenticated permits any resolved identity.
func Authenticated(_ string, actor Actor) bool {
	return actor.IsAuthenticated()
}

var (
	AdminOnlyPolicy = Policy{Name: "admin_only", allow: func(m string, a Actor, _ Owned) bool {
		return AdminOnly(m, a)
	}}
	AdminOrReadOnlyPolicy = Policy{Name: "admin_or_read_only", allow: func(m string, a Actor, _ Owned) bool {
		return AdminOrReadOnly(m, a)
	}}
	AdminModeratorOwnerOrReadOnlyPolicy = Policy{Name: "admin_moderator_owner_or_read_only", allow: AdminModeratorOwnerOrReadOnly}
	AuthenticatedPolicy                 = Policy{Name: "authenticated", allow: func(m string, a Actor, _ Owned) bool {
		return Authenticated(m, a)
	}}
)

// Check evaluates p and returns ErrUnauthenticated or ErrForbidden on denial.
func Check(p Policy, method string, actor Actor, resource Owned) error {
	allowed := p.Allows(method, actor, resource)
	recordDecision(p.Name, actor, allowed)
	if allowed {
		return nil
	}
	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return ErrForbidden
}
