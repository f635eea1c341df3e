package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID keys a post by its originating file path. The same source file
// always maps to the same identifier across runs.
func PostUUID(sourcePath string) uuid.UUID {
	return UUID("go-blog:post:" + strings.TrimSpace(sourcePath))
}

// TagUUID keys a tag page by its exact tag value.
func TagUUID(tag string) uuid.UUID {
	return UUID("go-blog:tag:" + strings.TrimSpace(tag))
}
