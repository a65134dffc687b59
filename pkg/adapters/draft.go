package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
)

func MapDomainDraftToAPI(d *domain.ReportDraft) api.Draft {
	return api.Draft{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		DataSources:      nonNil(mapSlice(d.DataSources, MapDomainTableSelectionToAPI)),
		Relationships:    nonNil(mapSlice(d.Relationships, MapDomainRelationshipToAPI)),
		Fields:           nonNil(mapSlice(d.Fields, mapReportField)),
		CalculatedFields: nonNil(mapSlice(d.CalculatedFields, MapDomainCalculatedFieldToAPI)),
		CTEDefinitions:   nonNil(d.CTEDefinitions),
		Filters:          nonNil(mapSlice(d.Filters, mapFilter)),
		Settings:         MapDomainReportSettingsToAPI(d.Settings),
		Schedule:         MapDomainScheduleToAPI(d.Schedule),
		Email:            MapDomainEmailToAPI(d.Email),
		ReportID:         d.ReportID,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func MapAPIDraftToDomain(d api.Draft) *domain.ReportDraft {
	return &domain.ReportDraft{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		DataSources:      mapSlice(d.DataSources, MapAPITableSelectionToDomain),
		Relationships:    mapSlice(d.Relationships, MapAPIRelationshipToDomain),
		Fields:           mapSlice(d.Fields, mapAPIReportField),
		CalculatedFields: mapSlice(d.CalculatedFields, MapAPICalculatedFieldToDomain),
		CTEDefinitions:   d.CTEDefinitions,
		Filters:          mapSlice(d.Filters, mapAPIFilter),
		Settings:         MapAPIReportSettingsToDomain(d.Settings),
		Schedule:         MapAPIScheduleToDomain(d.Schedule),
		Email:            MapAPIEmailToDomain(d.Email),
		ReportID:         d.ReportID,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func MapDomainDraftToStore(d *domain.ReportDraft) (*store.Draft, error) {
	payload, err := json.Marshal(MapDomainDraftToAPI(d))
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft %s: %w", d.ID, err)
	}
	return &store.Draft{
		ID:        d.ID,
		Name:      d.Name,
		Payload:   payload,
		ReportID:         d.ReportID,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

// MapStoreDraftToDomain decodes the payload; row columns win over the payload
// for identity, name, report id and timestamps.
func MapStoreDraftToDomain(s *store.Draft) (*domain.ReportDraft, error) {
	if s == nil {
		return nil, nil
	}
	var body api.Draft
	if len(s.Payload) > 0 {
		if err := json.Unmarshal(s.Payload, &body); err != nil {
			return nil, fmt.Errorf("failed to decode draft %s: %w", s.ID, err)
		}
	}
	d := MapAPIDraftToDomain(body)
	d.ID = s.ID
	d.Name = s.Name
	d.ReportID = s.ReportID
	d.CreatedAt = s.CreatedAt
	d.UpdatedAt = s.UpdatedAt
	return d, nil
}

func MapDomainReportSettingsToAPI(s domain.ReportSettings) api.ReportSettings {
	return api.ReportSettings{Format: string(s.Format), Template: s.Template, Layout: s.Layout}
}

func MapAPIReportSettingsToDomain(s api.ReportSettings) domain.ReportSettings {
	return domain.ReportSettings{Format: domain.ReportFormat(s.Format), Template: s.Template, Layout: s.Layout}
}

func MapDomainScheduleToAPI(s domain.ScheduleSettings) api.ScheduleSettings {
	return api.ScheduleSettings{
		Enabled:    s.Enabled,
		Frequency:  string(s.Frequency),
		DayOfWeek:  s.DayOfWeek,
		DayOfMonth: s.DayOfMonth,
		Time:       s.Time,
		Timezone:   s.Timezone,
	}
}

func MapAPIScheduleToDomain(s api.ScheduleSettings) domain.ScheduleSettings {
	return domain.ScheduleSettings{
		Enabled:    s.Enabled,
		Frequency:  domain.Frequency(s.Frequency),
		DayOfWeek:  s.DayOfWeek,
		DayOfMonth: s.DayOfMonth,
		Time:       s.Time,
		Timezone:   s.Timezone,
	}
}

// MapDomainEmailToAPI always emits a recipients array, empty when there are none.
func MapDomainEmailToAPI(e domain.EmailSettings) api.EmailSettings {
	recipients := make([]api.Recipient, 0, len(e.Recipients))
	for _, r := range e.Recipients {
		recipients = append(recipients, api.Recipient{Name: r.Name, Email: r.Email})
	}
	return api.EmailSettings{
		Enabled:      e.Enabled,
		Subject:      e.Subject,
		Body:         e.Body,
		AttachFormat: string(e.AttachFormat),
		Recipients:   recipients,
	}
}

func MapAPIEmailToDomain(e api.EmailSettings) domain.EmailSettings {
	recipients := make([]domain.Recipient, 0, len(e.Recipients))
	for _, r := range e.Recipients {
		recipients = append(recipients, domain.Recipient{Name: r.Name, Email: r.Email})
	}
	return domain.EmailSettings{
		Enabled:      e.Enabled,
		Subject:      e.Subject,
		Body:         e.Body,
		AttachFormat: domain.ReportFormat(e.AttachFormat),
		Recipients:   recipients,
	}
}
