package sync

import (
	"context"

	"gwatching/internal/board"
)

// Store is the board surface the reconciliation engine writes through.
// *board.Client satisfies it; tests substitute an in-memory fake.
type Store interface {
	Labels(ctx context.Context) ([]board.Label, error)
	CreateLabel(ctx context.Context, name, color string) (board.Label, error)
	DeleteLabel(ctx context.Context, labelID string) error

	Cards(ctx context.Context) ([]board.Card, error)
	UpdateCard(ctx context.Context, cardID string, fields board.CardFields) error
	AddCardLabel(ctx context.Context, cardID, labelID string) error
	RemoveCardLabel(ctx context.Context, cardID, labelID string) error

	Checklists(ctx context.Context) ([]board.Checklist, error)
	CreateChecklist(ctx context.Context, cardID, name string) (board.Checklist, error)
	RenameChecklist(ctx context.Context, checklistID, name string) error
	DeleteChecklist(ctx context.Context, checklistID string) error

	CreateCheckItem(ctx context.Context, checklistID, name string) (board.CheckItem, error)
	UpdateCheckItem(ctx context.Context, cardID, itemID, name string) error
	DeleteCheckItem(ctx context.Context, checklistID, itemID string) error

	CreateAttachment(ctx context.Context, cardID, name, mimeType string, data []byte, setCover bool) (board.Attachment, error)
	DeleteAttachment(ctx context.Context, cardID, attachmentID string) error
}

var _ Store = (*board.Client)(nil)
