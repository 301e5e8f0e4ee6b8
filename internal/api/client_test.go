package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticToken("tok1")))
	if err := client.Get(context.Background(), "/articles", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer tok1" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestBearerHeaderOmittedWithoutToken(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticToken("")))
	if err := client.Get(context.Background(), "/articles", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hasAuth {
		t.Error("Authorization header must be omitted entirely when no token is held")
	}
}

func TestTokenReadAtCallTime(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	token := "before"
	source := tokenFunc(func() string { return token })

	client := NewClient(server.URL, WithTokenSource(source))

	// Change the token after client construction; the later call must
	// carry the new value.
	token = "after"
	if err := client.Get(context.Background(), "/articles", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer after" {
		t.Errorf("token must be read at call time, got %q", gotAuth)
	}
}

type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }

func TestRequestIDAttached(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.Get(context.Background(), "/articles", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotID == "" {
		t.Error("expected an X-Request-ID header on every call")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantBody   string
		wantStatus int
	}{
		{
			name:       "client error with plain body",
			status:     http.StatusBadRequest,
			body:       "title is required",
			wantKind:   KindClientError,
			wantBody:   "title is required",
			wantStatus: 400,
		},
		{
			name:       "client error with json body",
			status:     http.StatusConflict,
			body:       `{"error":"email already exists"}`,
			wantKind:   KindClientError,
			wantBody:   "email already exists",
			wantStatus: 409,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       "",
			wantKind:   KindServerError,
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			err := client.Get(context.Background(), "/articles", nil)
			if err == nil {
				t.Fatal("expected an error")
			}

			apiErr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *api.Error, got %T", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("expected kind %v, got %v", tt.wantKind, apiErr.Kind)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
			}
			if tt.wantBody != "" && apiErr.Body != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, apiErr.Body)
			}
		})
	}
}

func TestNetworkFailureClassified(t *testing.T) {
	// Point the client at a closed server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "/articles", nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	if !IsNetwork(err) {
		t.Errorf("expected a network-kind error, got %v", err)
	}
}

func TestAuthRejectHookFires(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var rejectedStatus int
	client := NewClient(server.URL)
	client.OnAuthReject(func(status int) { rejectedStatus = status })

	err := client.Get(context.Background(), "/users", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsAuthRejected(err) {
		t.Errorf("expected auth rejection, got %v", err)
	}
	if rejectedStatus != http.StatusUnauthorized {
		t.Errorf("expected hook to fire with 401, got %d", rejectedStatus)
	}
}

func TestErrorMessageFallback(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"verbatim body", &Error{Kind: KindClientError, Status: 400, Body: "bad title"}, "bad title"},
		{"empty server error", &Error{Kind: KindServerError, Status: 500}, "the server encountered an error"},
		{"empty network error", &Error{Kind: KindNetwork}, "could not reach the server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Email != "a@x.com" {
			t.Errorf("unexpected email: %s", req.Email)
		}
		json.NewEncoder(w).Encode(LoginResponse{Token: "tok1"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	token, err := client.Login(context.Background(), "a@x.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok1" {
		t.Errorf("expected tok1, got %q", token)
	}
}

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer file.Close()
		if header.Filename != "logo.png" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}
		json.NewEncoder(w).Encode(UploadResponse{URL: "https://cdn.example/logo.png"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	url, err := client.Upload(context.Background(), "/tmp/logo.png", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example/logo.png" {
		t.Errorf("unexpected url: %s", url)
	}
}
