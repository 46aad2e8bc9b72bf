package session

import "github.com/moa-plans/agriplan/internal/domain"

// Wire shapes for the auth endpoints. The backend nests the Django user
// and the ministry profile separately; the client flattens them into one
// domain.User.

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authUserPayload struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type authUnitPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type authProfilePayload struct {
	ID   int64            `json:"id"`
	Role string           `json:"role"`
	Unit *authUnitPayload `json:"unit"`
}

type loginResponse struct {
	Token   string             `json:"token"`
	User    authUserPayload    `json:"user"`
	Profile authProfilePayload `json:"profile"`
}

type meResponse struct {
	User    authUserPayload    `json:"user"`
	Profile authProfilePayload `json:"profile"`
}

func mapAuthUser(u authUserPayload, p authProfilePayload) *domain.User {
	user := &domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  true,
		Role:      domain.UserRole(p.Role),
	}
	if p.Unit != nil {
		user.Unit = &domain.Unit{
			ID:   p.Unit.ID,
			Name: p.Unit.Name,
			Type: domain.UnitType(p.Unit.Type),
		}
	}
	return user
}
