package models

// Calendar is a calendar visible to the authenticated account.
// Owner is the mailbox the calendar was fetched for; the remote API does not
// report ownership on the calendar itself.
type Calendar struct {
	ID    string
	Name  string
	Owner string
	Raw   map[string]any // metadata as last returned by the backend
}
