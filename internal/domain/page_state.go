package domain

// PageState is the complete view of one page of a draft, returned to
// clients that render or inspect the canvas.
type PageState struct {
	DraftID    string      `json:"draftId"`
	Index      int         `json:"index"`
	Page       string      `json:"pageName"`
	PageNames  []string    `json:"pageNames"`
	Components []Component `json:"components"`
	Selected   string      `json:"selected,omitempty"`
}
