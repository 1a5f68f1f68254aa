package ports

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const idTimestampLayout = "20060102_150405"

type IDGenerator interface {
	NewID(now time.Time) string
}

// TimestampIDs produces second-granularity timestamps with a short random suffix
// so sessions started within the same second stay distinct.
type TimestampIDs struct{}

func (TimestampIDs) NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return now.Format(idTimestampLayout) + "-" + suffix
}
