package cmd

import (
	"encoding/json"
	"os"
	"strings"
)

// messageWidth is how much of a commit message one output line shows
const messageWidth = 80

// outputJSON encodes data as indented JSON to stdout
func outputJSON(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// truncateString truncates a string to maxLen runes with ellipsis
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-3]) + "..."
}

// truncateMessage flattens a commit message to its first line and caps
// it at the display width, the body is noise in a per-fork listing
func truncateMessage(message string) string {
	line := message
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	return truncateString(strings.TrimSpace(line), messageWidth)
}
