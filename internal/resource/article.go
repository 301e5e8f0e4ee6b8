package resource

import (
	"encoding/json"
	"time"

	"github.com/pittsix/cmsctl/internal/session"
)

// Article statuses accepted by the backend.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article is a CMS article, normalized from the backend's wire shape.
type Article struct {
	ID        string
	Title     string
	Content   string
	Image     string
	Status    string
	Author    string
	CreatedAt time.Time
}

type wireArticle struct {
	ID         string    `json:"id"`
	AltID      string    `json:"_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Image      string    `json:"image"`
	Status     string    `json:"status"`
	AuthorName string    `json:"author_name"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
}

type articlePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
	Status  string `json:"status"`
	Author  string `json:"author,omitempty"`
}

func decodeArticle(raw json.RawMessage) (Article, error) {
	var w wireArticle
	if err := json.Unmarshal(raw, &w); err != nil {
		return Article{}, err
	}
	status := w.Status
	if status == "" {
		status = ArticleStatusDraft
	}
	return Article{
		ID:        firstNonEmpty(w.ID, w.AltID),
		Title:     w.Title,
		Content:   w.Content,
		Image:     w.Image,
		Status:    status,
		Author:    firstNonEmpty(w.AuthorName, w.Author),
		CreatedAt: w.CreatedAt,
	}, nil
}

func validateArticle(a Article) ValidationErrors {
	errs := ValidationErrors{}
	if a.Title == "" {
		errs["title"] = "title is required"
	}
	if a.Content == "" {
		errs["content"] = "content is required"
	}
	if a.Status != "" && a.Status != ArticleStatusDraft && a.Status != ArticleStatusPublished {
		errs["status"] = "status must be draft or published"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Articles describes the article resource for the generic controller.
func Articles() Descriptor[Article] {
	return Descriptor[Article]{
		Kind:           "article",
		CollectionPath: "/articles",
		ScopedPath:     "/my-articles",
		ID:             func(a Article) string { return a.ID },
		Label:          func(a Article) string { return a.Title },
		Decode:         decodeArticle,
		Payload: func(a Article) any {
			status := a.Status
			if status == "" {
				status = ArticleStatusDraft
			}
			return articlePayload{
				Title:   a.Title,
				Content: a.Content,
				Image:   a.Image,
				Status:  status,
				Author:  a.Author,
			}
		},
		Validate: validateArticle,
		StampAuthor: func(a *Article, p *session.Profile) {
			if a.Author == "" {
				a.Author = p.DisplayName
			}
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
