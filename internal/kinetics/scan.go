package kinetics

import (
	"sort"
	"strconv"
	"strings"
)

// spelling is one way an identifier may be written in rate-law text.
// slot is -1 for parameters.
type spelling struct {
	text      string
	sanitized string
	slot      int
}

// Segment is a piece of rate-law text. Slot is the species it names, or -1.
type Segment struct {
	Text string
	Slot int
}

// Segments splits text into species references and everything else.
// References are matched as whole tokens against both the original and the
// sanitized ids, longest first, so "Raf-1" is one reference and "Raf" inside
// "Rafp" is none.
func (t *SymbolTable) Segments(text string) []Segment {
	var out []Segment
	scan(text, t.written, func(chunk string, m *spelling) {
		slot := -1
		if m != nil {
			slot = m.slot
		}
		out = append(out, Segment{Text: chunk, Slot: slot})
	})
	return out
}

// buildSpellings lists the sanitized and original form of every species,
// longest first.
func (t *SymbolTable) buildSpellings() []spelling {
	ids := t.IDsLongestFirst()
	out := make([]spelling, 0, 2*len(ids))
	for _, sid := range ids {
		sp := t.species[t.slots[sid]]
		out = append(out, spelling{text: sid, sanitized: sid, slot: sp.Slot})
		if sp.OriginalID != sid {
			out = append(out, spelling{text: sp.OriginalID, sanitized: sid, slot: sp.Slot})
		}
	}
	sortLongestFirst(out)
	return out
}

func sortLongestFirst(s []spelling) {
	sort.SliceStable(s, func(i, j int) bool { return len(s[i].text) > len(s[j].text) })
}

// splitsInLexer reports whether the expression lexer would not read id as a
// single identifier token. Pure numbers are excluded so literals are never
// rewritten.
func splitsInLexer(id string) bool {
	if id == "" {
		return false
	}
	if _, err := strconv.ParseFloat(id, 64); err == nil {
		return false
	}
	if c := id[0]; c >= '0' && c <= '9' {
		return true
	}
	for i := 0; i < len(id); i++ {
		if !isWordByte(id[i]) || id[i] >= 0x80 {
			return true
		}
	}
	return false
}

// normalize rewrites declared ids the lexer would split, such as "Raf-1",
// into their sanitized spelling.
func normalize(raw string, species []spelling, params []Parameter) string {
	var rs []spelling
	for _, s := range species {
		if splitsInLexer(s.text) {
			rs = append(rs, s)
		}
	}
	for _, p := range params {
		if sid := Sanitize(p.ID); sid != "" && splitsInLexer(p.ID) {
			rs = append(rs, spelling{text: p.ID, sanitized: sid, slot: -1})
		}
	}
	if len(rs) == 0 {
		return raw
	}
	sortLongestFirst(rs)

	var b strings.Builder
	b.Grow(len(raw))
	scan(raw, rs, func(chunk string, m *spelling) {
		if m != nil {
			b.WriteString(m.sanitized)
			return
		}
		b.WriteString(chunk)
	})
	return b.String()
}

// scan calls emit for each run of text, passing the matched spelling for
// whole-token matches and nil for the text in between.
func scan(text string, spellings []spelling, emit func(chunk string, m *spelling)) {
	plain := 0
	for i := 0; i < len(text); {
		if i > 0 && isWordByte(text[i-1]) {
			i++
			continue
		}
		m := matchAt(text, i, spellings)
		if m == nil {
			i++
			continue
		}
		if plain < i {
			emit(text[plain:i], nil)
		}
		end := i + len(m.text)
		emit(text[i:end], m)
		i, plain = end, end
	}
	if plain < len(text) {
		emit(text[plain:], nil)
	}
}

func matchAt(text string, i int, spellings []spelling) *spelling {
	rest := text[i:]
	for k := range spellings {
		s := &spellings[k]
		if s.text == "" || !strings.HasPrefix(rest, s.text) {
			continue
		}
		if end := i + len(s.text); end < len(text) && isWordByte(text[end]) {
			continue
		}
		return s
	}
	return nil
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
