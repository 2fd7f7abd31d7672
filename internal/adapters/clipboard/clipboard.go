// Package clipboard writes to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"

	"firedam/internal/ports"
)

// System implements ports.ClipboardWriter with the OS clipboard
type System struct{}

var _ ports.ClipboardWriter = System{}

// WriteAll replaces the clipboard contents with text
func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility was found
func Available() bool {
	return !clipboard.Unsupported
}
