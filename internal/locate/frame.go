// Package locate resolves a raw stack frame to the authored source file it
// came from, by fetching the compiled file and scanning it for the file name
// breadcrumb a build tool left behind
package locate

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame is a stack frame split into its parts
type Frame struct {
	URL    string
	Line   int
	Column int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s:%d:%d", f.URL, f.Line, f.Column)
}

// ParseFrame parses a single stack frame line. Accepted shapes:
//
//	name@http://host/app.js:10:5
//	    at name (http://host/app.js:10:5)
//	    at http://host/app.js:10:5
//	http://host/app.js:10:5
func ParseFrame(raw string) (Frame, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Frame{}, fmt.Errorf("empty stack frame")
	}

	if rest, ok := strings.CutPrefix(s, "at "); ok {
		s = strings.TrimSpace(rest)
		if open := strings.LastIndex(s, "("); open >= 0 && strings.HasSuffix(s, ")") {
			s = s[open+1 : len(s)-1]
		}
	} else if at := geckoSeparator(s); at >= 0 {
		s = s[at+1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return Frame{}, fmt.Errorf("stack frame %q has no line and column", raw)
	}

	line, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || line < 0 {
		return Frame{}, fmt.Errorf("invalid line in stack frame %q", raw)
	}
	column, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || column < 0 {
		return Frame{}, fmt.Errorf("invalid column in stack frame %q", raw)
	}

	url := strings.Join(parts[:len(parts)-2], ":")
	if url == "" {
		return Frame{}, fmt.Errorf("stack frame %q has no file", raw)
	}

	return Frame{URL: url, Line: line, Column: column}, nil
}

// geckoSeparator finds the "@" between function name and location. Only an
// "@" ahead of the URL scheme counts, so "@" inside a path is left alone.
func geckoSeparator(s string) int {
	limit := len(s)
	if scheme := strings.Index(s, "://"); scheme >= 0 {
		limit = scheme
	}
	return strings.LastIndex(s[:limit], "@")
}
