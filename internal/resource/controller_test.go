package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pittsix/cmsctl/internal/api"
	"github.com/pittsix/cmsctl/internal/errors"
	"github.com/pittsix/cmsctl/internal/session"
)

func newArticleController(t *testing.T, handler http.Handler) *Controller[Article] {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL)
	return NewController(client, nil, Articles(), nil)
}

func TestListReplacesCache(t *testing.T) {
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","title":"First"},{"id":"2","title":"Second"}]`))
	}))

	require.NoError(t, ctrl.List(context.Background()))

	items := ctrl.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "Second", items[1].Title)
	assert.Equal(t, Loaded, ctrl.LoadState())
}

func TestListFailureKeepsStaleCache(t *testing.T) {
	var fail atomic.Bool
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id":"1","title":"Kept"}]`))
	}))

	require.NoError(t, ctrl.List(context.Background()))
	require.Len(t, ctrl.Items(), 1)

	fail.Store(true)
	err := ctrl.List(context.Background())
	require.Error(t, err)

	// Previous cache survives the failed fetch.
	items := ctrl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Title)
	assert.Equal(t, LoadFailed, ctrl.LoadState())
	assert.Error(t, ctrl.LoadError())
}

func TestSubmitBlockedByValidation(t *testing.T) {
	var hits atomic.Int32
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))

	form := ctrl.BeginCreate()
	form.Draft.Title = ""
	form.Draft.Content = "x"

	_, err := ctrl.Submit(context.Background())
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "title")
	assert.NotContains(t, verrs, "content")

	// No network call was made and the form stays open for correction.
	assert.Equal(t, int32(0), hits.Load())
	require.NotNil(t, ctrl.Form())
	assert.Equal(t, verrs, ctrl.Form().Errors)
}

func TestSubmitCreatePostsAndMerges(t *testing.T) {
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`[]`))
		case r.Method == http.MethodPost:
			var p map[string]any
			json.NewDecoder(r.Body).Decode(&p)
			if p["title"] != "New" {
				t.Errorf("unexpected payload title: %v", p["title"])
			}
			w.Write([]byte(`{"_id":"42","title":"New","content":"body","status":"draft"}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	require.NoError(t, ctrl.List(context.Background()))

	form := ctrl.BeginCreate()
	form.Draft.Title = "New"
	form.Draft.Content = "body"

	created, err := ctrl.Submit(context.Background())
	require.NoError(t, err)

	// The backend answered with the historical `_id` spelling; the
	// cache entry must still be editable under the canonical id.
	assert.Equal(t, "42", created.ID)
	assert.Nil(t, ctrl.Form())

	editForm, err := ctrl.BeginEdit("42")
	require.NoError(t, err)
	assert.Equal(t, "New", editForm.Draft.Title)
}

func TestSubmitEditPuts(t *testing.T) {
	var gotPath string
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":"7","title":"Old","content":"c","status":"draft"}]`))
		case http.MethodPut:
			gotPath = r.URL.Path
			w.Write([]byte(`{"id":"7","title":"Renamed","content":"c","status":"draft"}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	require.NoError(t, ctrl.List(context.Background()))

	form, err := ctrl.BeginEdit("7")
	require.NoError(t, err)
	form.Draft.Title = "Renamed"

	updated, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/articles/7", gotPath)
	assert.Equal(t, "Renamed", updated.Title)

	// Replace-by-id, not append.
	items := ctrl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Renamed", items[0].Title)
}

func TestSubmitServerRejectionKeepsFormOpen(t *testing.T) {
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slug already taken", http.StatusConflict)
	}))

	form := ctrl.BeginCreate()
	form.Draft.Title = "T"
	form.Draft.Content = "C"

	_, err := ctrl.Submit(context.Background())
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	// The server's message is surfaced verbatim for display.
	assert.Equal(t, "slug already taken", apiErr.Message())
	assert.NotNil(t, ctrl.Form())
}

func TestBeginEditNotInCache(t *testing.T) {
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := ctrl.BeginEdit("missing")
	require.Error(t, err)

	var cmsErr *errors.CMSError
	require.ErrorAs(t, err, &cmsErr)
	assert.Equal(t, errors.ErrCodeResourceNotFound, cmsErr.Code)
}

func TestDeleteFlow(t *testing.T) {
	var deletedPath string
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":"1","title":"T","content":"c"}]`))
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	require.NoError(t, ctrl.List(context.Background()))

	confirm, err := ctrl.RequestDelete("1")
	require.NoError(t, err)
	assert.Equal(t, "T", confirm.TargetLabel)
	assert.Equal(t, DeleteConfirming, confirm.Phase)

	require.NoError(t, ctrl.ConfirmDelete(context.Background()))
	assert.Equal(t, "/articles/1", deletedPath)
	assert.Empty(t, ctrl.Items())
	assert.Nil(t, ctrl.Confirmation())
}

func TestDeleteFailureKeepsEntry(t *testing.T) {
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":"1","title":"T","content":"c"}]`))
		case http.MethodDelete:
			http.Error(w, "article is referenced elsewhere", http.StatusConflict)
		}
	}))

	require.NoError(t, ctrl.List(context.Background()))

	_, err := ctrl.RequestDelete("1")
	require.NoError(t, err)

	err = ctrl.ConfirmDelete(context.Background())
	require.Error(t, err)

	// Entry unchanged, confirmation back to Confirming for retry or
	// cancel; never silently dropped.
	require.Len(t, ctrl.Items(), 1)
	confirm := ctrl.Confirmation()
	require.NotNil(t, confirm)
	assert.Equal(t, DeleteConfirming, confirm.Phase)

	ctrl.CancelDelete()
	assert.Nil(t, ctrl.Confirmation())
}

func TestRequestDeleteUnknownID(t *testing.T) {
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := ctrl.RequestDelete("nope")
	require.Error(t, err)
}

func TestAuthorStampedAtSubmitTime(t *testing.T) {
	var gotAuthor string
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"email": "a@x.com", "first_name": "Ana"})
	})
	mux.HandleFunc("/articles", func(w http.ResponseWriter, r *http.Request) {
		var p map[string]any
		json.NewDecoder(r.Body).Decode(&p)
		gotAuthor, _ = p["author"].(string)
		w.Write([]byte(`{"id":"1","title":"T","content":"c"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL)
	creds := session.NewCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	sessions := session.NewStore(client, creds, nil)
	client.SetTokenSource(sessions)

	ctrl := NewController(client, sessions, Articles(), nil)

	// The form opens before anyone is logged in; the author must come
	// from the profile current at submit time.
	form := ctrl.BeginCreate()
	form.Draft.Title = "T"
	form.Draft.Content = "c"

	sessions.Login("tok1")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := sessions.Await(ctx)
	require.NoError(t, err)

	_, err = ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", gotAuthor)
}

func TestListMine(t *testing.T) {
	var gotPath string
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"id":"9","title":"Mine","content":"c"}]`))
	}))

	require.NoError(t, ctrl.ListMine(context.Background()))
	assert.Equal(t, "/my-articles", gotPath)
	require.Len(t, ctrl.Items(), 1)
}

func TestListMineUnsupported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(server.Close)
	ctrl := NewController(api.NewClient(server.URL), nil, Users(), nil)

	assert.Error(t, ctrl.ListMine(context.Background()))
}

func TestValidateIsDeterministic(t *testing.T) {
	ctrl := newArticleController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("validate must never touch the network")
	}))

	draft := Article{Title: "", Content: "x"}
	first := ctrl.Validate(draft)
	second := ctrl.Validate(draft)
	assert.Equal(t, first, second)
}
