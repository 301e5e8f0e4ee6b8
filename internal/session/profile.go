package session

import "strings"

// Profile is the authenticated user's normalized profile. It is owned
// by the Store and only ever replaced wholesale on refetch.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
	AvatarURL   string
	Bio         string
	Roles       []string
}

// HasRole reports whether the profile carries the given role.
func (p *Profile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// wireProfile mirrors GET /users/me. The backend has shipped both
// snake_case and camelCase spellings over time, so both are accepted.
type wireProfile struct {
	ID           string   `json:"id"`
	AltID        string   `json:"_id"`
	Email        string   `json:"email"`
	FirstName    string   `json:"first_name"`
	FirstNameAlt string   `json:"firstName"`
	LastName     string   `json:"last_name"`
	LastNameAlt  string   `json:"lastName"`
	ProfileImage string   `json:"profile_image"`
	Avatar       string   `json:"avatar"`
	Bio          string   `json:"bio"`
	Roles        []string `json:"roles"`
}

// normalize collapses the historical field-name variants into one
// canonical profile.
func (w wireProfile) normalize() *Profile {
	p := &Profile{
		ID:        firstNonEmpty(w.ID, w.AltID),
		Email:     w.Email,
		FirstName: firstNonEmpty(w.FirstName, w.FirstNameAlt),
		LastName:  firstNonEmpty(w.LastName, w.LastNameAlt),
		AvatarURL: firstNonEmpty(w.ProfileImage, w.Avatar),
		Bio:       w.Bio,
		Roles:     w.Roles,
	}
	p.DisplayName = displayName(p.FirstName, p.LastName, p.Email)
	return p
}

// displayName derives a presentable name: first name, optionally with
// last name, falling back to the email's local part.
func displayName(first, last, email string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ProfileUpdate is the payload for PUT /profile. The backend expects
// snake_case field names on writes.
type ProfileUpdate struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}
