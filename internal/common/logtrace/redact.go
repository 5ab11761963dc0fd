package logtrace

import "strings"

// Redact masks a sensitive value for log output. At most eight mask characters are shown.
func Redact(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted:" + strings.Repeat("*", min(len(s), 8)) + "]"
}
