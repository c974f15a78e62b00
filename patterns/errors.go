package patterns

import "fmt"

// SchemaError reports a structurally invalid pattern document, path-qualified
// the way a JSON schema validator would (e.g. "patterns[7].matchers.roman_seq[2]").
type SchemaError struct {
	Path string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("patterns: schema error at %s: %s", e.Path, e.Msg)
}

// DuplicateIDError reports two patterns, possibly from different source
// files, declaring the same id.
type DuplicateIDError struct {
	ID    string
	First string
	Dup   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("patterns: duplicate pattern id %q (first seen in %s, duplicated in %s)", e.ID, e.First, e.Dup)
}
