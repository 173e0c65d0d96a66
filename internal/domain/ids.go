package domain

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewRoadmapID returns a time-ordered, unique roadmap identifier ("roadmap_<ULID>").
func NewRoadmapID(now time.Time) string {
	return "roadmap_" + ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}
