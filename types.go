package main

import (
	"strings"
	"time"
)

type ItemKind string

const (
	KindNote     ItemKind = "note"
	KindEvidence ItemKind = "evidence"
)

// Position is a point on the logical board canvas, origin top-left,
// x increasing right, y increasing down.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EvidenceBrief is the summary the board embeds for evidence items.
// The board never carries full evidence records.
type EvidenceBrief struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// BoardItem is a pinned object on the detective board. Kind selects the
// payload: NoteText for notes, Evidence for evidence items. The store
// enforces the same exclusivity with a check constraint; Validate mirrors it
// client-side so invalid items never reach the wire.
type BoardItem struct {
	ID        int64          `json:"id"`
	Kind      ItemKind       `json:"kind"`
	NoteText  string         `json:"note_text"`
	Evidence  *EvidenceBrief `json:"evidence"`
	Position  Position       `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewNoteItem(text string, pos Position) BoardItem {
	return BoardItem{Kind: KindNote, NoteText: text, Position: pos}
}

func NewEvidenceItem(brief EvidenceBrief, pos Position) BoardItem {
	return BoardItem{Kind: KindEvidence, Evidence: &brief, Position: pos}
}

func (it BoardItem) Validate() error {
	switch it.Kind {
	case KindNote:
		if strings.TrimSpace(it.NoteText) == "" {
			return &ValidationError{Field: "note_text", Reason: "note text is required"}
		}
		if it.Evidence != nil {
			return &ValidationError{Field: "evidence", Reason: "must be empty for notes"}
		}
	case KindEvidence:
		if it.Evidence == nil {
			return &ValidationError{Field: "evidence", Reason: "evidence selection is required"}
		}
		if strings.TrimSpace(it.NoteText) != "" {
			return &ValidationError{Field: "note_text", Reason: "must be empty for evidence items"}
		}
	default:
		return &ValidationError{Field: "kind", Reason: "unknown item kind"}
	}
	return nil
}

// Title returns the short label rendered on the item card.
func (it BoardItem) Title() string {
	if it.Kind == KindEvidence && it.Evidence != nil {
		return it.Evidence.Title
	}
	if i := strings.IndexByte(it.NoteText, '\n'); i >= 0 {
		return it.NoteText[:i]
	}
	return it.NoteText
}

// BoardConnection is an undirected link between two distinct items. The
// store normalizes endpoint order (low id first) and dedups pairs.
type BoardConnection struct {
	ID        int64     `json:"id"`
	FromItem  int64     `json:"from_item"`
	ToItem    int64     `json:"to_item"`
	CreatedAt time.Time `json:"created_at"`
}

func (c BoardConnection) Touches(itemID int64) bool {
	return c.FromItem == itemID || c.ToItem == itemID
}

// BoardState is the wholesale board for one case as served by the store.
type BoardState struct {
	ID          int64             `json:"id"`
	CaseID      int64             `json:"case"`
	Items       []BoardItem       `json:"items"`
	Connections []BoardConnection `json:"connections"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CreateItemRequest is the item-creation body. EvidenceID is set only for
// kind=evidence, NoteText only for kind=note.
type CreateItemRequest struct {
	Kind       ItemKind `json:"kind"`
	NoteText   string   `json:"note_text"`
	EvidenceID int64    `json:"evidence_id,omitempty"`
	Position   Position `json:"position"`
}

type MoveItemRequest struct {
	Position Position `json:"position"`
}

type CreateConnectionRequest struct {
	FromItem int64 `json:"from_item"`
	ToItem   int64 `json:"to_item"`
}

// IndexConnection references items by index into the items array of a bulk
// board write, since those items have no ids yet.
type IndexConnection struct {
	FromIndex int `json:"from_index"`
	ToIndex   int `json:"to_index"`
}

// BoardWrite replaces a board wholesale (PUT).
type BoardWrite struct {
	Items       []CreateItemRequest `json:"items"`
	Connections []IndexConnection   `json:"connections"`
}
