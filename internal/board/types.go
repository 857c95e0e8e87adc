package board

// Label is a board label resource.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Cover is the attachment currently shown as a card's cover.
type Cover struct {
	AttachmentID string `json:"idAttachment"`
}

// Card is a card resource as returned by the board service.
type Card struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Desc         string   `json:"desc"`
	LabelIDs     []string `json:"idLabels"`
	ChecklistIDs []string `json:"idChecklists"`
	Labels       []Label  `json:"labels"`
	Cover        *Cover   `json:"cover"`
}

// CheckItem is a single checklist entry.
type CheckItem struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Pos  float64 `json:"pos"`
}

// Checklist is a checklist resource with its items.
type Checklist struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	CardID     string      `json:"idCard"`
	Pos        float64     `json:"pos"`
	CheckItems []CheckItem `json:"checkItems"`
}

// Attachment is the result of uploading a file to a card.
type Attachment struct {
	ID string `json:"id"`
}

// CardFields carries a partial card update; nil fields are left untouched.
type CardFields struct {
	Name     *string
	Desc     *string
	LabelIDs []string

	// HasLabelIDs must be set for an empty LabelIDs slice to clear the
	// card's labels instead of being skipped.
	HasLabelIDs bool
}

// IsZero reports whether the update carries no changes at all.
func (f CardFields) IsZero() bool {
	return f.Name == nil && f.Desc == nil && !f.HasLabelIDs && len(f.LabelIDs) == 0
}
