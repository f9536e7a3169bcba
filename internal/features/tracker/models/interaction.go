package models

import "time"

// ChatMessage is the subset of a platform message the ingestion pipeline reads.
type ChatMessage struct {
	ID          string
	ChannelID   string
	AuthorID    string
	AuthorIsBot bool
	Content     string
	HasEmbeds   bool
	CreatedAt   time.Time
	MentionIDs  []string
}

// PendingImport bridges step one and step two of the manual import dialog.
type PendingImport struct {
	ByUser    string    `json:"by_user"`
	USDAmount float64   `json:"usd_amount"`
	Coin      string    `json:"coin"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionKind tags an interactive submission.
type InteractionKind string

const (
	// InteractionOpenImport is the button that opens the step-one form.
	InteractionOpenImport InteractionKind = "import_open"
	// InteractionImportAmount is the step-one form submission.
	InteractionImportAmount InteractionKind = "import_amount"
	// InteractionImportSource is the step-two source choice.
	InteractionImportSource InteractionKind = "import_source"
)

// Interaction is a decoded interactive submission. Fields not relevant to
// Kind are left zero.
type Interaction struct {
	Kind   InteractionKind
	UserID string
	// OwnerID is the user the step-two control was issued to.
	OwnerID   string
	USDAmount string
	Coin      string
	Source    string
}
