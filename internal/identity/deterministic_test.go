package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := PostUUID("content/2021-04-24-redis.md")
	second := PostUUID("content/2021-04-24-redis.md")

	if first == uuid.Nil {
		t.Fatal("expected non-nil UUID")
	}
	if first != second {
		t.Fatalf("expected stable UUID, got %s and %s", first, second)
	}
}

func TestUUIDSeparatesNamespaces(t *testing.T) {
	post := PostUUID("java")
	tag := TagUUID("java")

	if post == tag {
		t.Fatalf("expected distinct namespaces, both produced %s", post)
	}
}

func TestUUIDRejectsEmptyKey(t *testing.T) {
	if got := UUID("  "); got != uuid.Nil {
		t.Fatalf("expected uuid.Nil for blank key, got %s", got)
	}
}
