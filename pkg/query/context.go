package query

import (
	"fmt"
	"strings"
)

// AssembleContext combines both retrieval channels into the context block
// the answer prompt consumes. Chunks are joined with a "#Document " marker
// so the model can tell them apart. Either channel may be empty; the
// section headers are always present.
func AssembleContext(structured string, unstructured []string) string {
	return fmt.Sprintf(
		"Structured data:\n%s\nUnstructured data:\n%s",
		structured,
		strings.Join(unstructured, "#Document "),
	)
}
