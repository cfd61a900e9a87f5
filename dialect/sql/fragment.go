package sql

import "strings"

// Placeholder selects the parameter-placeholder rendering scheme a dialect
// expects: "$n" for PostgreSQL, "?" for MySQL/SQLite.
type Placeholder int

const (
	PlaceholderQuestion Placeholder = iota // MySQL, SQLite: "?"
	PlaceholderDollar                      // PostgreSQL: "$1", "$2", ...
)

// Sql is a parameterized SQL fragment: an ordered list of text segments
// interleaved with opaque parameter values, such that
// len(segments) == len(params)+1. It is inert — a data structure, never a
// function of the database — so two calls to Build with the same inputs
// always produce textually identical Sql, and Render never touches a
// connection.
//
// Concatenation never interpolates a parameter's value into the text; the
// text only ever grows placeholder-free fragments that Render converts to
// "?"/"$n" at the very end.
type Sql struct {
	segments []string
	params   []any
}

// Empty is the concatenation identity: Join(Empty, f) == f for any f.
var Empty = Sql{segments: []string{""}}

// Raw returns a fragment consisting of the given text and no parameters.
// The caller asserts the text is safe to emit verbatim (an identifier
// already quoted by the adapter, a keyword, punctuation) — Raw must never
// be handed a value that originated from user input.
func Raw(text string) Sql {
	return Sql{segments: []string{text}}
}

// Value returns a fragment that renders as a single placeholder bound to v.
func Value(v any) Sql {
	return Sql{segments: []string{"", ""}, params: []any{v}}
}

// IsEmpty reports whether the fragment carries no text and no parameters.
func (s Sql) IsEmpty() bool {
	return len(s.params) == 0 && (len(s.segments) == 0 || (len(s.segments) == 1 && s.segments[0] == ""))
}

// NumParams returns how many parameters the fragment carries.
func (s Sql) NumParams() int { return len(s.params) }

// Append concatenates s with other, joining s's last segment directly to
// other's first segment (no separator). Append never mutates s or other.
func (s Sql) Append(other Sql) Sql {
	if len(s.segments) == 0 {
		return other
	}
	if len(other.segments) == 0 {
		return s
	}
	segs := make([]string, 0, len(s.segments)+len(other.segments)-1)
	segs = append(segs, s.segments[:len(s.segments)-1]...)
	segs = append(segs, s.segments[len(s.segments)-1]+other.segments[0])
	segs = append(segs, other.segments[1:]...)

	params := make([]any, 0, len(s.params)+len(other.params))
	params = append(params, s.params...)
	params = append(params, other.params...)

	return Sql{segments: segs, params: params}
}

// Join concatenates fragments with sep between each. Join of zero
// fragments, or Join(Empty-only slice), returns Empty.
func Join(fragments []Sql, sep Sql) Sql {
	if len(fragments) == 0 {
		return Empty
	}
	out := fragments[0]
	for _, f := range fragments[1:] {
		out = out.Append(sep).Append(f)
	}
	return out
}

// Concat is a convenience wrapper over Join with no separator.
func Concat(fragments ...Sql) Sql {
	return Join(fragments, Empty)
}

// Wrap parenthesizes the fragment: "(" + s + ")".
func (s Sql) Wrap() Sql {
	return Raw("(").Append(s).Append(Raw(")"))
}

// Render flattens the fragment to final SQL text and an ordered parameter
// slice, substituting the requested placeholder scheme. Render is pure and
// idempotent: calling it twice on the same Sql yields identical output.
func (s Sql) Render(mode Placeholder) (string, []any) {
	if len(s.params) == 0 {
		return strings.Join(s.segments, ""), nil
	}
	var sb strings.Builder
	for i, seg := range s.segments {
		sb.WriteString(seg)
		if i < len(s.params) {
			switch mode {
			case PlaceholderDollar:
				sb.WriteByte('$')
				sb.WriteString(itoa(i + 1))
			default:
				sb.WriteByte('?')
			}
		}
	}
	return sb.String(), s.params
}

// itoa avoids pulling in strconv just for small non-negative integers in
// the hot Render path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
