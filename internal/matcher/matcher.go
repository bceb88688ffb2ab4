// Package matcher filters document lines by plain substring containment of the query
package matcher

import "strings"

// Mode - один из четырех режимов поиска, выбирается один раз из двух флагов конфигурации
type Mode uint8

const (
	ModeMatch             Mode = iota // строки, содержащие query
	ModeMatchInsensitive              // то же, без учета регистра
	ModeInvert                        // строки, НЕ содержащие query
	ModeInvertInsensitive             // то же, без учета регистра
)

// SelectMode maps the two configuration flags onto exactly one Mode.
func SelectMode(caseSensitive, invert bool) Mode {
	switch {
	case !invert && caseSensitive:
		return ModeMatch
	case !invert && !caseSensitive:
		return ModeMatchInsensitive
	case invert && caseSensitive:
		return ModeInvert
	default:
		return ModeInvertInsensitive
	}
}

func (m Mode) CaseSensitive() bool {
	return m != ModeMatchInsensitive && m != ModeInvertInsensitive
}

func (m Mode) Inverted() bool {
	return m == ModeInvert || m == ModeInvertInsensitive
}

func (m Mode) String() string {
	switch m {
	case ModeMatch:
		return "match"
	case ModeMatchInsensitive:
		return "match-insensitive"
	case ModeInvert:
		return "invert"
	case ModeInvertInsensitive:
		return "invert-insensitive"
	default:
		return "unknown"
	}
}

// Filter splits document into lines and returns those passing the mode's predicate, in order.
func Filter(query, document string, mode Mode) []string {
	return FilterLines(query, SplitLines(document), mode)
}

// FilterLines returns the lines passing the mode's predicate. Returned lines are the original
// ones even in case-insensitive modes; duplicates are kept.
func FilterLines(query string, lines []string, mode Mode) []string {
	// неизвестный режим ведет себя как ModeMatch
	caseSensitive := mode.CaseSensitive()
	invert := mode.Inverted()

	if !caseSensitive {
		query = strings.ToLower(query)
	}

	result := []string{}
	for _, line := range lines {
		if contains(line, query, caseSensitive) != invert {
			result = append(result, line)
		}
	}
	return result
}

// query уже приведен к нижнему регистру, если caseSensitive == false
func contains(line, query string, caseSensitive bool) bool {
	if !caseSensitive {
		line = strings.ToLower(line)
	}
	return strings.Contains(line, query)
}

// SplitLines splits on '\n' and drops one trailing '\r' per line. A final terminator does not
// produce an extra empty line, an empty document has no lines.
func SplitLines(document string) []string {
	lines := []string{}
	for document != "" {
		line := document
		i := strings.IndexByte(document, '\n')
		switch i {
		case -1:
			document = ""
		default:
			line = document[:i]
			document = document[i+1:]
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}
