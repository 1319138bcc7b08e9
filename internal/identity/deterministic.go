package identity

import (
	"strconv"
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

// ModerationGroupUUID identifies the group that receives curation requests.
func ModerationGroupUUID(role string) uuid.UUID {
	return UUID("go-curations:group:" + strings.ToLower(strings.TrimSpace(role)))
}

// ModerationGroupRef returns the receiver reference value for the moderation group.
func ModerationGroupRef(role string) string {
	id := ModerationGroupUUID(role)
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// TimelineEventUUID identifies a timeline event by request and sequence number
// so replayed events keep their identity.
func TimelineEventUUID(requestID uuid.UUID, sequence int) uuid.UUID {
	return UUID("go-curations:event:" + requestID.String() + ":" + strconv.Itoa(sequence))
}
