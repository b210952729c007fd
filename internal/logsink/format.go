package logsink

import (
	"fmt"
	"time"
)

// FormatDateFolder returns the yyyy/mm/dd prefix that shards log blobs by
// day.
func FormatDateFolder(t time.Time) string {
	return fmt.Sprintf("%d/%02d/%02d", t.Year(), t.Month(), t.Day())
}
