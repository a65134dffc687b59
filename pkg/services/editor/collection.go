package editor

import (
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

// Upsert replaces the field with the same ID in place, or appends it.
func Upsert(draft *domain.ReportDraft, field domain.CalculatedField) error {
	if err := Validate(field); err != nil {
		return err
	}
	if field.ID == "" {
		field.ID = uuid.NewString()
	}
	if field.Provenance == "" {
		field.Provenance = domain.ProvenanceManual
	}
	for i := range draft.CalculatedFields {
		if draft.CalculatedFields[i].ID == field.ID {
			draft.CalculatedFields[i] = field
			return nil
		}
	}
	draft.CalculatedFields = append(draft.CalculatedFields, field)
	return nil
}

// AddGenerated adds a generated field at the end of the collection.
func AddGenerated(draft *domain.ReportDraft, field domain.CalculatedField) error {
	if err := Validate(field); err != nil {
		return err
	}
	draft.CalculatedFields = append(draft.CalculatedFields, field)
	return nil
}

func Remove(draft *domain.ReportDraft, id string) error {
	for i := range draft.CalculatedFields {
		if draft.CalculatedFields[i].ID == id {
			draft.CalculatedFields = append(draft.CalculatedFields[:i], draft.CalculatedFields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrFieldNotFound, id)
}
