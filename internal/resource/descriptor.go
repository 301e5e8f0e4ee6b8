package resource

import (
	"encoding/json"

	"github.com/pittsix/cmsctl/internal/session"
)

// Descriptor parameterizes the generic controller for one resource
// type: where the collection lives, how to read identity off the wire,
// and the type's local validation rules. The three CMS resource types
// each provide one; the controller logic is shared.
type Descriptor[T any] struct {
	// Kind is the lowercase singular resource name used in errors and
	// logs, e.g. "article".
	Kind string

	// CollectionPath is the REST collection, e.g. "/articles". Item
	// paths are CollectionPath + "/" + id.
	CollectionPath string

	// ScopedPath optionally names a listing scoped to the current
	// session's author, e.g. "/my-articles". Empty when the backend
	// has none for this type.
	ScopedPath string

	// ID returns the resource's canonical identifier, empty for a
	// draft that was never persisted.
	ID func(T) string

	// Label returns a short human-readable handle for confirmation
	// prompts, e.g. an article title or a user email.
	Label func(T) string

	// Decode turns one wire object into a normalized T, collapsing
	// historical field-name variants (id/_id, snake/camel case).
	Decode func(json.RawMessage) (T, error)

	// Payload builds the write body the backend expects for POST/PUT.
	Payload func(T) any

	// Validate runs the type's synchronous, local required-field
	// checks. It must be deterministic and must not touch the network.
	Validate func(T) ValidationErrors

	// StampAuthor fills the resource's author field from the session
	// profile when the type carries one and the draft left it empty.
	// Nil for types without an author field.
	StampAuthor func(*T, *session.Profile)
}

func (d Descriptor[T]) itemPath(id string) string {
	return d.CollectionPath + "/" + id
}

// decodeList turns a wire array into normalized values, preserving the
// server's response order.
func (d Descriptor[T]) decodeList(raw []json.RawMessage) ([]T, error) {
	items := make([]T, 0, len(raw))
	for _, entry := range raw {
		item, err := d.Decode(entry)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
