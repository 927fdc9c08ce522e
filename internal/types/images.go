package types

// ImageSource records the provenance of a generated image.
type ImageSource string

// Image provenance values
const (
	SourceGenerated ImageSource = "generated"
	SourceCached    ImageSource = "cached"
)

// ImageResult binds a visual placement to generated binary content.
// Placements outnumber results whenever generation or the relevance filter
// drops items; that is expected, not an error.
type ImageResult struct {
	Placement VisualPlacement `json:"placement"`
	Content   []byte          `json:"-"`
	MIMEType  string          `json:"mime_type"`
	Source    ImageSource     `json:"source"`
	OK        bool            `json:"ok"`
}

// ImageStats is the aggregate outcome of one batch-generation stage.
type ImageStats struct {
	Total     int `json:"total"`
	Generated int `json:"generated"`
	Cached    int `json:"cached"`
	Failed    int `json:"failed"`
}

// FilterStats records the outcome of the relevance filter + cap stage.
type FilterStats struct {
	Accepted int            `json:"accepted"`
	Rejected int            `json:"rejected"`
	Reasons  map[string]int `json:"reasons,omitempty"` // rejection reason -> count
}
