// Package vtt decodes WebVTT caption content into plain transcript text.
package vtt

import (
	"regexp"
	"strings"
)

var (
	timestampLine = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} --> \d{2}:\d{2}:\d{2}\.\d{3}`)
	cueNumberLine = regexp.MustCompile(`^\d+$`)
)

// ExtractText converts a VTT document into plain text. The transform drops
// the WEBVTT header line, timestamp range lines, bare cue sequence numbers
// and blank lines, then joins the remaining lines in their original order.
// The transform is idempotent: its output contains none of the stripped
// patterns, so re-applying it is a no-op.
func ExtractText(content string) string {
	lines := strings.Split(content, "\n")

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}
		if i == 0 && isHeaderLine(trimmed, lines) {
			continue
		}
		if timestampLine.MatchString(trimmed) {
			continue
		}
		if cueNumberLine.MatchString(trimmed) {
			continue
		}
		out = append(out, trimmed)
	}

	return strings.Join(out, "\n")
}

// isHeaderLine recognizes the WEBVTT file signature: the word WEBVTT,
// optionally followed by whitespace and metadata, terminated by a blank
// line. Extracted output contains no blank lines, so it is never
// stripped again.
func isHeaderLine(trimmed string, lines []string) bool {
	if trimmed != "WEBVTT" &&
		!strings.HasPrefix(trimmed, "WEBVTT ") &&
		!strings.HasPrefix(trimmed, "WEBVTT\t") {
		return false
	}
	return len(lines) > 1 && strings.TrimSpace(strings.TrimRight(lines[1], "\r")) == ""
}
