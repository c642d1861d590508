package kinetics

import "strings"

// Sanitize keeps only ASCII letters and digits so that any model identifier
// becomes a single expression token. A leading digit gets an "s" prefix.
// Sanitize is idempotent.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	s := b.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		return "s" + s
	}
	return s
}
