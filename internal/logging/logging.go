package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath returns the per-session log file for name, e.g.
// logs/serenity.20260212_213836.log.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.UTC().Format("20060102_150405")),
	)
}
