package claimrisk

import _ "embed"

//go:embed docs.md
var docsMarkdown string

// Documentation returns the static project documentation as markdown.
func Documentation() string {
	return docsMarkdown
}
