package domain

// User is the identity a session represents, including the profile the
// backend resolves alongside it (role and assigned unit).
type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	Role      UserRole
	Unit      *Unit // nil for users not assigned to a unit (superadmins)
}

// FullName returns "First Last", falling back to the username when both
// name fields are blank.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session pairs the authenticated user with nothing else: the bearer token
// is held by the session store and the local credential state, never by
// consumers of the session.
type Session struct {
	User User
}
