// Package session identifies one decode run.
package session

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Session ties a decode run to the exact symbol source it decodes against,
// so emitted output can be attributed to a specific firmware build.
type Session struct {
	ID          string
	ImageDigest string
	StartedAt   time.Time
}

// New derives a fresh run id and a blake2b digest of the loaded image bytes.
func New(image []byte) Session {
	sum := blake2b.Sum256(image)
	return Session{
		ID:          uuid.NewString(),
		ImageDigest: hex.EncodeToString(sum[:]),
		StartedAt:   time.Now().UTC(),
	}
}
