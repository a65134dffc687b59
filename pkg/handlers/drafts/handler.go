package drafts

import (
	"errors"
	"net/http"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/handlers/respond"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/services/builder"
	"github.com/de-tools/report-atlas/pkg/services/editor"
	"github.com/de-tools/report-atlas/pkg/store/client"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/draft"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	builder builder.Builder
}

func NewHandler(b builder.Builder) *Handler {
	return &Handler{builder: b}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateDraftRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	d, err := h.builder.Create(r.Context(), builder.NewDraft{
		Name:          req.Name,
		Description:   req.Description,
		DataSources:   adapters.MapAPITableSelectionsToDomain(req.DataSources),
		Relationships: adapters.MapAPIRelationshipsToDomain(req.Relationships),
		Fields:        adapters.MapAPIReportFieldsToDomain(req.Fields),
		Filters:       adapters.MapAPIFiltersToDomain(req.Filters),
	})
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, adapters.MapDomainDraftToAPI(d))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.builder.List(r.Context())
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}

	response := make([]api.Draft, 0, len(drafts))
	for _, d := range drafts {
		response = append(response, adapters.MapDomainDraftToAPI(d))
	}
	respond.JSON(w, r, http.StatusOK, response)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.builder.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapDomainDraftToAPI(d))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.builder.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req api.SettingsRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	d, err := h.builder.UpdateSettings(r.Context(), chi.URLParam(r, "id"), builder.Settings{
		Report:   adapters.MapAPIReportSettingsToDomain(req.Settings),
		Schedule: adapters.MapAPIScheduleToDomain(req.Schedule),
		Email:    adapters.MapAPIEmailToDomain(req.Email),
	})
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapDomainDraftToAPI(d))
}

// ApplyWizard confirms a wizard selection against the draft. The fields named
// in the request are ignored; the draft's own columns are used.
func (h *Handler) ApplyWizard(w http.ResponseWriter, r *http.Request) {
	var req api.WizardRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	field, err := h.builder.ApplyWizard(r.Context(), chi.URLParam(r, "id"), adapters.MapWizardRequestToParams(req))
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, adapters.MapDomainCalculatedFieldToAPI(field))
}

func (h *Handler) SaveField(w http.ResponseWriter, r *http.Request) {
	var req api.CalculatedField
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	d, err := h.builder.SaveField(r.Context(), chi.URLParam(r, "id"), adapters.MapAPICalculatedFieldToDomain(req))
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapDomainDraftToAPI(d))
}

func (h *Handler) RemoveField(w http.ResponseWriter, r *http.Request) {
	d, err := h.builder.RemoveField(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "fieldID"))
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapDomainDraftToAPI(d))
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	report, err := h.builder.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, report)
}

// Fields lists the columns of the draft as insertable editor snippets.
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	d, err := h.builder.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}

	snippets := editor.FieldSnippets(d.AvailableFields())
	response := make([]api.Snippet, 0, len(snippets))
	for _, s := range snippets {
		response = append(response, api.Snippet{Name: s.Name, Syntax: s.Syntax, Description: s.Description})
	}
	respond.JSON(w, r, http.StatusOK, response)
}

func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, draft.ErrDraftNotFound), errors.Is(err, editor.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, builder.ErrInvalidDraft),
		errors.Is(err, editor.ErrNameRequired),
		errors.Is(err, editor.ErrExpressionRequired),
		errors.Is(err, expression.ErrIncompleteSelection),
		errors.Is(err, expression.ErrUnknownPattern):
		return http.StatusUnprocessableEntity
	case errors.Is(err, builder.ErrReportsUnwired):
		return http.StatusServiceUnavailable
	case errors.Is(err, client.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

