package locate

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultEditorBaseURL  = "http://localhost:3000"
	DefaultEditorEndpoint = "__open-stack-frame-in-editor"
)

// Editor builds links that ask the development server to open a file in
// the user's editor
type Editor struct {
	BaseURL  string
	Endpoint string
}

// DefaultEditor targets the create-react-app development server
func DefaultEditor() Editor {
	return Editor{
		BaseURL:  DefaultEditorBaseURL,
		Endpoint: DefaultEditorEndpoint,
	}
}

// Link returns the editor link for loc, or "" when the file is unknown.
// Unknown line and column default to 1.
func (e Editor) Link(loc Location) string {
	if !loc.Known() {
		return ""
	}

	base := e.BaseURL
	if base == "" {
		base = DefaultEditorBaseURL
	}
	endpoint := e.Endpoint
	if endpoint == "" {
		endpoint = DefaultEditorEndpoint
	}

	line := loc.Line
	if line <= 0 {
		line = 1
	}
	column := loc.Column
	if column <= 0 {
		column = 1
	}

	return fmt.Sprintf("%s/%s?fileName=%s&lineNumber=%d&colNumber=%d",
		strings.TrimSuffix(base, "/"), strings.TrimPrefix(endpoint, "/"),
		encodeURIComponent(loc.File), line, column)
}

// encodeURIComponent escapes s for a query value, with spaces as %20
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
