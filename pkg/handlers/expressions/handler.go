package expressions

import (
	"errors"
	"net/http"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/handlers/respond"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/services/editor"
)

type Handler struct {
	engine *expression.Engine
}

func NewHandler(engine *expression.Engine) *Handler {
	if engine == nil {
		engine = expression.NewEngine()
	}
	return &Handler{engine: engine}
}

func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	patterns := expression.Patterns()
	response := make([]api.Pattern, 0, len(patterns))
	for _, p := range patterns {
		response = append(response, adapters.MapPatternInfoToAPI(p))
	}
	respond.JSON(w, r, http.StatusOK, response)
}

// Render previews the field a wizard selection would produce without touching
// any draft. An incomplete selection answers 422.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	var req api.WizardRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	field, err := h.engine.Generate(adapters.MapWizardRequestToParams(req))
	switch {
	case errors.Is(err, expression.ErrUnknownPattern), errors.Is(err, expression.ErrIncompleteSelection):
		respond.Error(w, r, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		respond.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, api.RenderResponse{
		Expression: field.Expression,
		Field:      adapters.MapDomainCalculatedFieldToAPI(field),
	})
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, adapters.MapCatalogToAPI(editor.DefaultCatalog()))
}
