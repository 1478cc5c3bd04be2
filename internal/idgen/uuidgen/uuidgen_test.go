package uuidgen

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewIDIsUniqueUUID(t *testing.T) {
	g := New()

	a, err := g.NewID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, _ := g.NewID(context.Background())

	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}

	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("id %q is not a uuid: %v", a, err)
	}
}
