package ingest

import "strings"

// TokenizeLine splits one CSV line on commas that sit outside double quotes.
// Every '"' toggles the quoted state and is dropped; escaped quotes ("") are
// not unescaped. Fields are trimmed of whitespace and stray quotes, and a
// trailing empty field after a final comma is kept. Malformed quoting never
// fails, it just yields whatever split results.
func TokenizeLine(line string) []string {
	fields := make([]string, 0, strings.Count(line, ",")+1)
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(current.String()))
	return fields
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

// splitLines breaks text into trimmed, non-blank lines. A UTF-8 BOM on the
// first line is dropped.
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
