// Package permissions decides whether an actor may perform a request.
//
// Every check is a pure function of the request method, the actor and,
// for object-level checks, the resource being changed. Callers build the
// Actor from the user row loaded for the current request so that role
// changes take effect on the next request.
package permissions

import "yamdb/internal/microservices/http-api/models"

// Actor is the identity a request runs as. The zero value is anonymous.
type Actor struct {
	UserID   string
	Username string
	Role     models.Role
	IsStaff  bool
}

// Anonymous returns an actor without an identity.
func Anonymous() Actor { return Actor{} }

// FromUser derives the actor for a loaded user row.
func FromUser(u *models.User) Actor {
	if u == nil {
		return Anonymous()
	}
	return Actor{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		IsStaff:  u.IsStaff,
	}
}

// IsAuthenticated reports whether the actor is a resolved identity.
func (a Actor) IsAuthenticated() bool { return a.UserID != "" }

// IsAdmin is granted by the admin role or, independently, by the staff flag.
func (a Actor) IsAdmin() bool {
	return a.IsAuthenticated() && (a.Role == models.RoleAdmin || a.IsStaff)
}

// IsModerator reports whether the actor holds the moderator role.
func (a Actor) IsModerator() bool {
	return a.IsAuthenticated() && a.Role == models.RoleModerator
}

// Owns reports whether the actor wrote the resource.
func (a Actor) Owns(r Owned) bool {
	return a.IsAuthenticated() && r != nil && r.OwnerID() == a.UserID
}

// Label is the role name used in logs and metrics.
func (a Actor) Label() string {
	switch {
	case !a.IsAuthenticated():
		return "anonymous"
	case a.IsAdmin():
		return string(models.RoleAdmin)
	case a.Role == "":
		return string(models.RoleUser)
	}
	return string(a.Role)
}
