package models

// Section types understood by the content editor.
const (
	SectionHeader    = "header"
	SectionParagraph = "paragraph"
)

// ContentSection is one block of a custom welcome message, code of conduct or terms document.
type ContentSection struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ContentDocument is the stored shape of a custom content override.
type ContentDocument struct {
	Sections []ContentSection `json:"sections"`
}
