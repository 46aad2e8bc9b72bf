package ministry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/moa-plans/agriplan/internal/api"
)

type userService struct {
	client *api.Client
}

func NewUserService(client *api.Client) UserService {
	return &userService{client: client}
}

type userWithProfilePayload struct {
	User    userPayload     `json:"user"`
	Profile *profilePayload `json:"profile"`
}

func (p userWithProfilePayload) toDomain() UserWithProfile {
	out := UserWithProfile{User: p.User.toDomain()}
	if p.Profile != nil {
		out.Role = p.Profile.Role
		if p.Profile.Unit != nil {
			unit := p.Profile.Unit.toDomain()
			out.Unit = &unit
		}
	}
	return out
}

func (s *userService) List(ctx context.Context) ([]UserWithProfile, error) {
	var payload []userWithProfilePayload
	if err := s.client.Get(ctx, "/users/list-with-profiles/", nil, &payload); err != nil {
		return nil, err
	}
	users := make([]UserWithProfile, 0, len(payload))
	for _, p := range payload {
		users = append(users, p.toDomain())
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, in UserInput) (*UserWithProfile, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		fields := map[string][]string{}
		for name, value := range map[string]string{
			"username": in.Username,
			"email":    in.Email,
			"password": in.Password,
			"role":     string(in.Role),
		} {
			if value == "" {
				fields[name] = []string{"This field is required."}
			}
		}
		return nil, &api.Error{
			Kind:    api.KindValidation,
			Message: "missing required user fields",
			Fields:  fields,
		}
	}

	body := map[string]any{
		"username":   in.Username,
		"email":      in.Email,
		"password":   in.Password,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"role":       in.Role,
		"unit_id":    in.UnitID,
	}
	var payload userWithProfilePayload
	if err := s.client.Post(ctx, "/users/create-user/", body, &payload); err != nil {
		return nil, err
	}
	user := payload.toDomain()
	return &user, nil
}

func (s *userService) Update(ctx context.Context, id int64, in UserUpdate) (*UserWithProfile, error) {
	body := map[string]any{}
	if in.Email != nil {
		body["email"] = *in.Email
	}
	if in.Password != nil {
		body["password"] = *in.Password
	}
	if in.FirstName != nil {
		body["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		body["last_name"] = *in.LastName
	}
	if in.Role != nil {
		body["role"] = *in.Role
	}
	if in.UnitID != nil {
		body["unit_id"] = *in.UnitID
	}
	if in.IsActive != nil {
		body["is_active"] = *in.IsActive
	}

	var payload userWithProfilePayload
	req := api.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/users/%d/update-user/", id),
		Body:   body,
	}
	if err := s.client.Do(ctx, req, &payload); err != nil {
		return nil, err
	}
	user := payload.toDomain()
	return &user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/users/%d/delete-user/", id), nil)
}
