// CLAUDE:SUMMARY Line splitting and the quote-aware row tokenizer shared by every dataset loader.
package table

import "strings"

// SplitLines splits text on line breaks, trims every line and drops empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// ParseRow splits one line into fields.
//
// A double quote toggles quoted mode, a doubled quote inside a quoted field
// yields a literal quote, and a comma outside quoted mode ends the field.
// An unterminated quote keeps the rest of the line as field content.
func ParseRow(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if quoted && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
