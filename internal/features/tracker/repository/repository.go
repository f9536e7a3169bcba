package repository

import "context"

// Document names of the two persisted documents.
const (
	DocumentConfig = "config"
	DocumentData   = "data"
)

// DocumentStore saves and loads whole JSON documents by name. Save replaces
// the previous version atomically.
type DocumentStore interface {
	Save(ctx context.Context, name string, value interface{}) error
	// Load decodes the document into dest. It returns false when the
	// document has never been saved.
	Load(ctx context.Context, name string, dest interface{}) (bool, error)
}
