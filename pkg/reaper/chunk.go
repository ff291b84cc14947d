package reaper

import (
	"bytes"
)

// StateToText renders a host state blob as text. The host separates records
// with NUL bytes; each becomes a newline. A blob that already contains
// newlines cannot be told apart from record separators after this.
func StateToText(state []byte) string {
	return string(bytes.ReplaceAll(state, []byte{0}, []byte{'\n'}))
}

// TextToState is the inverse of StateToText.
func TextToState(text string) []byte {
	return bytes.ReplaceAll([]byte(text), []byte{'\n'}, []byte{0})
}
