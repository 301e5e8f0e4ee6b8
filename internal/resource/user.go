package resource

import "encoding/json"

// Roles known to the backend.
const (
	RoleUser       = "user"
	RoleOrgAdmin   = "org_admin"
	RoleSuperadmin = "superadmin"
)

// User is a managed CMS account, normalized from the backend's wire
// shape.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Roles     []string
}

type wireUser struct {
	ID           string   `json:"id"`
	AltID        string   `json:"_id"`
	Email        string   `json:"email"`
	FirstName    string   `json:"first_name"`
	FirstNameAlt string   `json:"firstName"`
	LastName     string   `json:"last_name"`
	LastNameAlt  string   `json:"lastName"`
	Roles        []string `json:"roles"`
}

type userPayload struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

func decodeUser(raw json.RawMessage) (User, error) {
	var w wireUser
	if err := json.Unmarshal(raw, &w); err != nil {
		return User{}, err
	}
	return User{
		ID:        firstNonEmpty(w.ID, w.AltID),
		Email:     w.Email,
		FirstName: firstNonEmpty(w.FirstName, w.FirstNameAlt),
		LastName:  firstNonEmpty(w.LastName, w.LastNameAlt),
		Roles:     w.Roles,
	}, nil
}

func validateUser(u User) ValidationErrors {
	errs := ValidationErrors{}
	if u.Email == "" {
		errs["email"] = "email is required"
	}
	if u.FirstName == "" {
		errs["first_name"] = "first name is required"
	}
	if u.LastName == "" {
		errs["last_name"] = "last name is required"
	}
	if len(u.Roles) == 0 {
		errs["roles"] = "at least one role is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Users describes the user resource for the generic controller.
func Users() Descriptor[User] {
	return Descriptor[User]{
		Kind:           "user",
		CollectionPath: "/users",
		ID:             func(u User) string { return u.ID },
		Label:          func(u User) string { return u.Email },
		Decode:         decodeUser,
		Payload: func(u User) any {
			return userPayload{
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Roles:     u.Roles,
			}
		},
		Validate: validateUser,
	}
}
