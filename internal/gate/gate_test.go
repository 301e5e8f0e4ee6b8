package gate

import (
	"testing"

	"github.com/pittsix/cmsctl/internal/session"
)

func TestCanEnter(t *testing.T) {
	tests := []struct {
		name         string
		status       session.Status
		requiresAuth bool
		want         Decision
	}{
		{"public target, no session", session.StatusUnauthenticated, false, Allow},
		{"public target, authenticated", session.StatusAuthenticated, false, Allow},
		{"protected target, authenticated", session.StatusAuthenticated, true, Allow},
		{"protected target, no session", session.StatusUnauthenticated, true, RedirectToLogin},
		{"protected target, still authenticating", session.StatusAuthenticating, true, RedirectToLogin},
		{"protected target, invalidated", session.StatusInvalid, true, RedirectToLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.Session{Status: tt.status}
			if got := CanEnter(sess, tt.requiresAuth); got != tt.want {
				t.Errorf("CanEnter(%v, %v) = %v, want %v", tt.status, tt.requiresAuth, got, tt.want)
			}
		})
	}
}

func TestCanEnterIsPure(t *testing.T) {
	sess := session.Session{Status: session.StatusAuthenticated}
	first := CanEnter(sess, true)
	for i := 0; i < 100; i++ {
		if got := CanEnter(sess, true); got != first {
			t.Fatalf("identical inputs yielded different decisions: %v then %v", first, got)
		}
	}
}
