package entry

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered identifier: base-36 milliseconds followed by
// a random suffix.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strconv.FormatInt(now.UnixMilli(), 36) + suffix[:10]
}
