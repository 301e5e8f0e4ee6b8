package exitcode

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/pittsix/cmsctl/internal/api"
	"github.com/pittsix/cmsctl/internal/errors"
	"github.com/pittsix/cmsctl/internal/resource"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: Success,
		},
		{
			name: "validation errors",
			err:  resource.ValidationErrors{"title": "title is required"},
			want: ValidationError,
		},
		{
			name: "wrapped validation errors",
			err:  fmt.Errorf("submit: %w", resource.ValidationErrors{"name": "name is required"}),
			want: ValidationError,
		},
		{
			name: "auth rejected",
			err:  errors.NewAuthRejectedError(nil),
			want: AuthError,
		},
		{
			name: "no session",
			err:  errors.NewNoSessionError(),
			want: AuthError,
		},
		{
			name: "resource not found",
			err:  errors.NewResourceNotFoundError("article", "42"),
			want: NotFound,
		},
		{
			name: "file not found",
			err:  errors.NewFileNotFoundError("/tmp/missing.png"),
			want: NotFound,
		},
		{
			name: "invalid config",
			err:  errors.NewConfigInvalidError("config.yaml", stderrors.New("bad yaml")),
			want: UsageError,
		},
		{
			name: "network wrapped in cms error",
			err:  errors.Wrap(errors.ErrCodeAPINetwork, "request failed", stderrors.New("refused")),
			want: NetworkError,
		},
		{
			name: "server error",
			err:  &api.Error{Kind: api.KindServerError, Status: 500},
			want: GeneralError,
		},
		{
			name: "not found status",
			err:  &api.Error{Kind: api.KindClientError, Status: 404},
			want: NotFound,
		},
		{
			name: "forbidden status",
			err:  &api.Error{Kind: api.KindClientError, Status: 403},
			want: AuthError,
		},
		{
			name: "network kind",
			err:  &api.Error{Kind: api.KindNetwork},
			want: NetworkError,
		},
		{
			name: "plain connection error",
			err:  stderrors.New("connection refused"),
			want: NetworkError,
		},
		{
			name: "plain unknown error",
			err:  stderrors.New("something broke"),
			want: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineExitCode(tt.err)
			if got != tt.want {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	codes := []int{Success, GeneralError, UsageError, ValidationError, NotFound, AuthError, NetworkError, Interrupted}
	seen := map[string]bool{}
	for _, code := range codes {
		desc := GetExitCodeDescription(code)
		if desc == "" || desc == "Unknown error" {
			t.Errorf("GetExitCodeDescription(%d) = %q, want a specific description", code, desc)
		}
		if seen[desc] {
			t.Errorf("GetExitCodeDescription(%d) = %q, duplicate description", code, desc)
		}
		seen[desc] = true
	}

	if got := GetExitCodeDescription(99); got != "Unknown error" {
		t.Errorf("GetExitCodeDescription(99) = %q, want Unknown error", got)
	}
}
