package atom

import (
	"fmt"
	"strings"
)

// Link annotation micro-syntax: a URL followed by bracketed suffixes such as
// https://example.com/feed.xml[rel=self][type=application/atom+xml]
// with the key vocabulary rel, type, title, lang, any subset, any order.
// This form exists only at the command-argument boundary; persisted XML uses
// real attributes. Literal backslashes and brackets inside a value (or the
// URL itself) are escaped with a backslash.

// FormatLink renders a link in annotation syntax. Suffixes are emitted in
// the fixed order rel, type, title, lang, omitting absent fields.
func FormatLink(l Link) string {
	var b strings.Builder
	b.WriteString(escapeAnnotation(l.Href))
	if l.Rel != "" {
		fmt.Fprintf(&b, "[rel=%s]", escapeAnnotation(l.Rel))
	}
	if l.Type != "" {
		fmt.Fprintf(&b, "[type=%s]", escapeAnnotation(l.Type))
	}
	if l.Title != "" {
		fmt.Fprintf(&b, "[title=%s]", escapeAnnotation(l.Title))
	}
	if l.Lang != "" {
		fmt.Fprintf(&b, "[lang=%s]", escapeAnnotation(l.Lang))
	}
	return b.String()
}

// ParseLink splits the leading URL from its bracketed suffixes. The parser
// accepts the suffixes in any order and any subset; an unrecognized key, an
// empty key, a nested or unterminated bracket, or trailing text after a
// suffix is a parse error.
func ParseLink(s string) (Link, error) {
	if s == "" {
		return Link{}, fmt.Errorf("link annotation: empty argument")
	}

	var link Link
	href, rest, err := scanAnnotationValue(s, false)
	if err != nil {
		return Link{}, err
	}
	if href == "" {
		return Link{}, fmt.Errorf("link annotation %q: missing URL", s)
	}
	link.Href = href

	seen := map[string]bool{}
	for rest != "" {
		// Each iteration consumes one [key=value] group.
		rest = rest[1:] // leading '['
		eq := strings.IndexByte(rest, '=')
		end := strings.IndexByte(rest, ']')
		if eq < 0 || (end >= 0 && end < eq) {
			return Link{}, fmt.Errorf("link annotation %q: bracket suffix without key=value", s)
		}
		key := rest[:eq]
		if key == "" {
			return Link{}, fmt.Errorf("link annotation %q: empty key in bracket suffix", s)
		}

		value, after, err := scanAnnotationValue(rest[eq+1:], true)
		if err != nil {
			return Link{}, fmt.Errorf("link annotation %q: %w", s, err)
		}
		if after == "" || after[0] != ']' {
			return Link{}, fmt.Errorf("link annotation %q: unterminated [%s=...] suffix", s, key)
		}
		rest = after[1:]
		if rest != "" && rest[0] != '[' {
			return Link{}, fmt.Errorf("link annotation %q: trailing text after suffix", s)
		}

		if seen[key] {
			return Link{}, fmt.Errorf("link annotation %q: duplicate key %q", s, key)
		}
		seen[key] = true

		switch key {
		case "rel":
			link.Rel = value
		case "type":
			link.Type = value
		case "title":
			link.Title = value
		case "lang":
			link.Lang = value
		default:
			return Link{}, fmt.Errorf("link annotation %q: unrecognized key %q", s, key)
		}
	}

	return link, nil
}

// scanAnnotationValue consumes escaped text up to the next unescaped bracket
// (or end of input) and returns the unescaped text plus the remainder. In
// value position an unescaped '[' is a nested bracket and therefore an error.
func scanAnnotationValue(s string, inValue bool) (string, string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", "", fmt.Errorf("dangling escape character")
			}
			i++
			b.WriteByte(s[i])
		case '[':
			if inValue {
				return "", "", fmt.Errorf("nested bracket in value")
			}
			return b.String(), s[i:], nil
		case ']':
			if !inValue {
				return "", "", fmt.Errorf("link annotation: unmatched %q", "]")
			}
			return b.String(), s[i:], nil
		default:
			b.WriteByte(s[i])
		}
	}
	if inValue {
		return "", "", fmt.Errorf("unterminated bracket suffix")
	}
	return b.String(), "", nil
}

func escapeAnnotation(s string) string {
	if !strings.ContainsAny(s, `\[]`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '[' || s[i] == ']' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
