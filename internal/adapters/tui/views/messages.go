package views

import "firedam/internal/domain"

// View switching messages
type SwitchToExplorerMsg struct{}

type SwitchToDetailMsg struct {
	Resource string
	Record   domain.ResultRecord
}

type SwitchToHelpMsg struct{}

// SearchResultMsg carries the outcome of one search. Seq identifies the
// request so that results of superseded searches can be dropped.
type SearchResultMsg struct {
	Seq      int
	Resource string
	Records  []domain.ResultRecord
	Err      error
}

// CopiedMsg reports a clipboard write
type CopiedMsg struct {
	What string
	Err  error
}
