package parser

import "strings"

// splitLines splits text on newlines without producing a trailing
// empty element for a final "\n".
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
