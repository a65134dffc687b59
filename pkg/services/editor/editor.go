package editor

import (
	"errors"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

var (
	ErrNameRequired       = errors.New("calculated field name is required")
	ErrExpressionRequired = errors.New("calculated field expression is required")
	ErrFieldNotFound      = errors.New("calculated field not found")
	ErrNoFieldOpen        = errors.New("no calculated field is being edited")
)

// Editor holds the calculated field currently being authored by hand.
// Insertions append to the end of the expression; there is no cursor.
type Editor struct {
	current *domain.CalculatedField
}

func New() *Editor {
	return &Editor{}
}

// Create opens a blank numeric field.
func (e *Editor) Create() {
	e.current = &domain.CalculatedField{
		ID:         uuid.NewString(),
		DataType:   domain.DataTypeNumeric,
		Provenance: domain.ProvenanceManual,
	}
}

// Edit opens a copy of an existing field.
func (e *Editor) Edit(field domain.CalculatedField) {
	f := field
	e.current = &f
}

func (e *Editor) Current() (domain.CalculatedField, bool) {
	if e.current == nil {
		return domain.CalculatedField{}, false
	}
	return *e.current, true
}

func (e *Editor) Insert(text string) {
	if e.current == nil {
		return
	}
	e.current.Expression += text
}

func (e *Editor) InsertSnippet(s Snippet) {
	e.Insert(s.Syntax)
}

func (e *Editor) InsertTemplate(t Template) {
	e.Insert(t.Expression)
}

func (e *Editor) SetName(name string) {
	if e.current != nil {
		e.current.Name = name
	}
}

func (e *Editor) SetLabel(label string) {
	if e.current != nil {
		e.current.Label = label
	}
}

func (e *Editor) SetDescription(desc string) {
	if e.current != nil {
		e.current.Description = desc
	}
}

func (e *Editor) SetDataType(t domain.DataType) {
	if e.current != nil {
		e.current.DataType = t
	}
}

func (e *Editor) SetExpression(expr string) {
	if e.current != nil {
		e.current.Expression = expr
	}
}

// Save closes the editor and returns the field when the save precondition holds.
// On failure the editor stays open.
func (e *Editor) Save() (domain.CalculatedField, error) {
	if e.current == nil {
		return domain.CalculatedField{}, ErrNoFieldOpen
	}
	if err := Validate(*e.current); err != nil {
		return domain.CalculatedField{}, err
	}
	field := *e.current
	field.IsValid = true
	e.current = nil
	return field, nil
}

func (e *Editor) Cancel() {
	e.current = nil
}

// Validate checks the save precondition. The expression itself is not parsed.
func Validate(field domain.CalculatedField) error {
	if field.Name == "" {
		return ErrNameRequired
	}
	if field.Expression == "" {
		return ErrExpressionRequired
	}
	return nil
}
