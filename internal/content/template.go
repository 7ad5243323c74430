// Package content is the shared scenario-template catalog. Templates are
// pooled, tenant-agnostic content; tenant records hold only opaque refs into
// this catalog, never the bodies.
package content

import "time"

// Template is one shared scenario template.
type Template struct {
	RefID    string `json:"ref_id"`
	Category string `json:"category"`
	Title    string `json:"title"`

	// Body is the scenario text with {{placeholder}} slots. It renders
	// per-call with tenant values substituted; it is never copied into a
	// tenant record.
	Body string `json:"body"`

	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}
