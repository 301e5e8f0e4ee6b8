package resource

import "encoding/json"

// Organization is a CMS organization, normalized from the backend's
// wire shape.
type Organization struct {
	ID          string
	Name        string
	Description string
	Logo        string
}

type wireOrganization struct {
	ID          string `json:"id"`
	AltID       string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type organizationPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

func decodeOrganization(raw json.RawMessage) (Organization, error) {
	var w wireOrganization
	if err := json.Unmarshal(raw, &w); err != nil {
		return Organization{}, err
	}
	return Organization{
		ID:          firstNonEmpty(w.ID, w.AltID),
		Name:        w.Name,
		Description: w.Description,
		Logo:        w.Logo,
	}, nil
}

func validateOrganization(o Organization) ValidationErrors {
	if o.Name == "" {
		return ValidationErrors{"name": "name is required"}
	}
	return nil
}

// Organizations describes the organization resource for the generic
// controller.
func Organizations() Descriptor[Organization] {
	return Descriptor[Organization]{
		Kind:           "organization",
		CollectionPath: "/organizations",
		ID:             func(o Organization) string { return o.ID },
		Label:          func(o Organization) string { return o.Name },
		Decode:         decodeOrganization,
		Payload: func(o Organization) any {
			return organizationPayload{
				Name:        o.Name,
				Description: o.Description,
				Logo:        o.Logo,
			}
		},
		Validate: validateOrganization,
	}
}
