package catalog

import "errors"

var ErrNotFound = errors.New("catalog entry not found")

type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	Units       []Unit `json:"units,omitempty"`
}

type Unit struct {
	ID          string     `json:"id"`
	SubjectID   string     `json:"subject_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	CreatedAt   int64      `json:"created_at"`
	Subtopics   []Subtopic `json:"subtopics,omitempty"`
}

type Subtopic struct {
	ID          string `json:"id"`
	UnitID      string `json:"unit_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"` // study text shown before activities
	Order       int    `json:"order"`
	CreatedAt   int64  `json:"created_at"`
}

// Path locates a subtopic inside the hierarchy; used for AI prompts and for
// echoing context on activity reads.
type Path struct {
	Subject  Subject  `json:"subject"`
	Unit     Unit     `json:"unit"`
	Subtopic Subtopic `json:"subtopic"`
}
