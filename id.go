package siteplan

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// RunIDGenerator provides identifiers that correlate log lines and findings
// from a single planning run.
type RunIDGenerator interface {
	NewRunID() string
}

// ULIDRunIDGenerator generates lexically sortable run IDs using
// cryptographic randomness.
type ULIDRunIDGenerator struct{}

func (ULIDRunIDGenerator) NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()
}
