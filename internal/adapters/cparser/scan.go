package cparser

import (
	"bytes"
	"slices"
)

// directive is one #include or #import line.
type directive struct {
	name   string
	system bool
}

// scanDirectives returns the include directives of buf in source order.
// Only lines whose first non-blank character is '#' are considered.
// Computed includes (#include MACRO) are skipped.
func scanDirectives(buf []byte) []directive {
	var out []directive
	for len(buf) > 0 {
		var line []byte
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			line, buf = buf[:i], buf[i+1:]
		} else {
			line, buf = buf, nil
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '#' {
			continue
		}
		line = bytes.TrimSpace(line[1:])

		switch {
		case bytes.HasPrefix(line, []byte("include_next")):
			line = line[len("include_next"):]
		case bytes.HasPrefix(line, []byte("include")):
			line = line[len("include"):]
		case bytes.HasPrefix(line, []byte("import")):
			line = line[len("import"):]
		default:
			continue
		}

		if d, ok := parseOperand(line); ok && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}

// parseOperand parses `"name"` or `<name>` after the directive keyword.
func parseOperand(line []byte) (directive, bool) {
	if len(line) == 0 {
		return directive{}, false
	}
	// #includefoo is not a directive, but #include"foo" is.
	if line[0] != ' ' && line[0] != '\t' && line[0] != '"' && line[0] != '<' {
		return directive{}, false
	}
	line = bytes.TrimSpace(line)
	if len(line) < 2 {
		return directive{}, false
	}

	var closing byte
	switch line[0] {
	case '"':
		closing = '"'
	case '<':
		closing = '>'
	default:
		return directive{}, false
	}

	end := bytes.IndexByte(line[1:], closing)
	if end <= 0 {
		return directive{}, false
	}
	return directive{name: string(line[1 : end+1]), system: closing == '>'}, true
}
