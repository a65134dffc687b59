package builder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/editor"
	"github.com/de-tools/report-atlas/pkg/services/schedule"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/draft"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNameTooShort   = errors.New("report name must be at least 3 characters long")
	ErrNoDataSources  = errors.New("at least one data source must be specified")
	ErrNoFields       = errors.New("at least one field must be specified")
	ErrReportsUnwired = errors.New("no report service configured")
	// ErrInvalidDraft wraps every publish validation failure.
	ErrInvalidDraft = errors.New("invalid draft")
)

const minReportNameLength = 3

// ReportService is the part of the backend API a draft is published to.
type ReportService interface {
	SaveReport(ctx context.Context, req api.ReportRequest) (*api.Report, error)
	CreateSchedule(ctx context.Context, req api.ScheduleRequest) error
	CreateEmailDistribution(ctx context.Context, req api.EmailDistributionRequest) error
}

// Settings groups the report, schedule and email sections of a draft.
type Settings struct {
	Report   domain.ReportSettings
	Schedule domain.ScheduleSettings
	Email    domain.EmailSettings
}

// NewDraft holds the initial content of a draft.
type NewDraft struct {
	Name          string
	Description   string
	DataSources   []domain.TableSelection
	Relationships []domain.Relationship
	Fields        []domain.ReportField
	Filters       []domain.Filter
}

// Builder assembles report drafts locally and publishes them to the backend.
type Builder interface {
	Create(ctx context.Context, in NewDraft) (*domain.ReportDraft, error)
	Get(ctx context.Context, id string) (*domain.ReportDraft, error)
	List(ctx context.Context) ([]*domain.ReportDraft, error)
	Delete(ctx context.Context, id string) error
	// Update loads the draft, applies fn and saves the result in one transaction.
	Update(ctx context.Context, id string, fn func(*domain.ReportDraft) error) (*domain.ReportDraft, error)
	UpdateSettings(ctx context.Context, id string, s Settings) (*domain.ReportDraft, error)

	// ApplyWizard generates a calculated field from the draft's available
	// fields and appends it. Nothing but the calculated fields changes.
	ApplyWizard(ctx context.Context, id string, params expression.Params) (domain.CalculatedField, error)
	SaveField(ctx context.Context, id string, field domain.CalculatedField) (*domain.ReportDraft, error)
	RemoveField(ctx context.Context, id, fieldID string) (*domain.ReportDraft, error)

	Publish(ctx context.Context, id string) (*api.Report, error)
}

type Option func(*builder)

func WithClock(now func() time.Time) Option {
	return func(b *builder) {
		b.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(b *builder) {
		b.newID = newID
	}
}

func WithEngine(engine *expression.Engine) Option {
	return func(b *builder) {
		b.engine = engine
	}
}

// WithReports sets the backend used by Publish.
func WithReports(reports ReportService) Option {
	return func(b *builder) {
		b.reports = reports
	}
}

type builder struct {
	db      *sql.DB
	drafts  draft.Store
	reports ReportService
	engine  *expression.Engine
	now     func() time.Time
	newID   func() string
}

// NewBuilder creates a builder over the draft store. db, when set, scopes
// read-modify-write cycles in a transaction.
func NewBuilder(db *sql.DB, drafts draft.Store, opts ...Option) (Builder, error) {
	if drafts == nil {
		return nil, fmt.Errorf("draft store is nil")
	}
	b := &builder{
		db:     db,
		drafts: drafts,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.engine == nil {
		b.engine = expression.NewEngine(expression.WithClock(b.now), expression.WithIDGenerator(b.newID))
	}
	return b, nil
}

func (b *builder) Create(ctx context.Context, in NewDraft) (*domain.ReportDraft, error) {
	now := b.now().UTC()
	d := &domain.ReportDraft{
		ID:            b.newID(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		DataSources:   in.DataSources,
		Relationships: in.Relationships,
		Fields:        in.Fields,
		Filters:       in.Filters,
		Settings:      domain.ReportSettings{}.WithDefaults(),
		Schedule:      domain.ScheduleSettings{}.WithDefaults(),
		Email:         domain.EmailSettings{}.WithDefaults(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	row, err := adapters.MapDomainDraftToStore(d)
	if err != nil {
		return nil, err
	}
	if err := b.drafts.Create(ctx, row); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("draft", d.ID).Str("name", d.Name).Msg("draft created")
	return d, nil
}

func (b *builder) Get(ctx context.Context, id string) (*domain.ReportDraft, error) {
	row, err := b.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreDraftToDomain(row)
}

func (b *builder) List(ctx context.Context) ([]*domain.ReportDraft, error) {
	rows, err := b.drafts.List(ctx)
	if err != nil {
		return nil, err
	}

	drafts := make([]*domain.ReportDraft, 0, len(rows))
	for _, row := range rows {
		d, err := adapters.MapStoreDraftToDomain(row)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (b *builder) Delete(ctx context.Context, id string) error {
	return b.drafts.Delete(ctx, id)
}

func (b *builder) Update(ctx context.Context, id string, fn func(*domain.ReportDraft) error) (*domain.ReportDraft, error) {
	var updated *domain.ReportDraft
	err := b.transact(ctx, func(ctx context.Context) error {
		d, err := b.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		d.UpdatedAt = b.now().UTC()

		row, err := adapters.MapDomainDraftToStore(d)
		if err != nil {
			return err
		}
		if err := b.drafts.Save(ctx, row); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (b *builder) UpdateSettings(ctx context.Context, id string, s Settings) (*domain.ReportDraft, error) {
	return b.Update(ctx, id, func(d *domain.ReportDraft) error {
		d.Settings = s.Report.WithDefaults()
		d.Schedule = s.Schedule.WithDefaults()
		d.Email = s.Email.WithDefaults()
		return nil
	})
}

func (b *builder) ApplyWizard(ctx context.Context, id string, params expression.Params) (domain.CalculatedField, error) {
	var field domain.CalculatedField
	_, err := b.Update(ctx, id, func(d *domain.ReportDraft) error {
		params.Fields = d.AvailableFields()

		generated, err := b.engine.Generate(params)
		if err != nil {
			return err
		}
		if err := editor.AddGenerated(d, generated); err != nil {
			return err
		}
		field = generated
		return nil
	})
	if err != nil {
		return domain.CalculatedField{}, err
	}

	zerolog.Ctx(ctx).Info().
		Str("draft", id).
		Str("pattern", string(params.Pattern)).
		Str("field", field.Name).
		Msg("wizard field added")
	return field, nil
}

func (b *builder) SaveField(ctx context.Context, id string, field domain.CalculatedField) (*domain.ReportDraft, error) {
	return b.Update(ctx, id, func(d *domain.ReportDraft) error {
		return editor.Upsert(d, field)
	})
}

func (b *builder) RemoveField(ctx context.Context, id, fieldID string) (*domain.ReportDraft, error) {
	return b.Update(ctx, id, func(d *domain.ReportDraft) error {
		return editor.Remove(d, fieldID)
	})
}

// Publish saves the draft as a report, then attaches the schedule and email
// distribution when they are enabled. The returned report id is kept on the
// draft even if attaching fails.
func (b *builder) Publish(ctx context.Context, id string) (*api.Report, error) {
	logger := zerolog.Ctx(ctx)
	if b.reports == nil {
		return nil, ErrReportsUnwired
	}

	d, err := b.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Validate(d); err != nil {
		return nil, err
	}

	req := adapters.MapDraftToReportRequest(d)
	req.Name = strings.TrimSpace(req.Name)

	report, err := b.reports.SaveReport(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	logger.Info().Str("draft", id).Int64("report", report.ID).Msg("report saved")

	if _, err := b.Update(ctx, id, func(d *domain.ReportDraft) error {
		d.ReportID = &report.ID
		return nil
	}); err != nil {
		return nil, err
	}

	if d.Schedule.Enabled {
		sreq := adapters.MapScheduleToRequest(report.ID, d.Schedule, b.now())
		if err := b.reports.CreateSchedule(ctx, sreq); err != nil {
			return report, fmt.Errorf("failed to create schedule for report %d: %w", report.ID, err)
		}
	}
	if d.Email.Enabled {
		ereq := adapters.MapEmailToRequest(report.ID, d.Email)
		if err := b.reports.CreateEmailDistribution(ctx, ereq); err != nil {
			return report, fmt.Errorf("failed to create email distribution for report %d: %w", report.ID, err)
		}
	}

	return report, nil
}

// Validate applies the checks the report service enforces before a draft is
// sent, so a publish fails locally with a precise error.
func Validate(d *domain.ReportDraft) error {
	if err := validate(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}
	return nil
}

func validate(d *domain.ReportDraft) error {
	if len(strings.TrimSpace(d.Name)) < minReportNameLength {
		return ErrNameTooShort
	}
	if len(d.DataSources) == 0 {
		return ErrNoDataSources
	}
	if len(d.Fields) == 0 {
		return ErrNoFields
	}
	if err := schedule.Validate(d.Schedule); err != nil {
		return err
	}
	if d.Email.Enabled {
		return schedule.ValidateRecipients(d.Email.Recipients)
	}
	return nil
}

func (b *builder) transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if b.db == nil || duckdb.GetTransaction(ctx) != nil {
		return fn(ctx)
	}
	return duckdb.InTransaction(ctx, b.db, fn)
}
