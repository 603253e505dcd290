package observability

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDForNormalisesClientUUID(t *testing.T) {
	want := uuid.New().String()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(RequestIDHeader, strings.ToUpper(want))

	if got := requestIDFor(r); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ctx := ContextWithRequestID(context.Background(), "abc-123")
		if got := RequestIDFromContext(ctx); got != "abc-123" {
			t.Fatalf("expected %q, got %q", "abc-123", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if got := RequestIDFromContext(context.Background()); got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		if got := RequestIDFromContext(ctx); got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}
