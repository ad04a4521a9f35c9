package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a base-36 millisecond timestamp followed by a random suffix.
// Ids are collision-resistant, not globally unique.
func NewID() string {
	return NewIDAt(time.Now())
}

func NewIDAt(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(t.UnixMilli(), 36) + "-" + suffix
}

// Now is the wall clock used for timestamps stored in documents.
func Now() time.Time {
	return time.Now().UTC()
}
