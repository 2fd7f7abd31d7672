package views

import "errors"

var (
	errNoClipboard = errors.New("clipboard not available")
	errNoURL       = errors.New("record has no url")
)
