package relationships

import (
	"net/http"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/handlers/respond"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/services/schema"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Suggest proposes joins for the posted table selection.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req api.SuggestRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	tables, columns, keys := adapters.MapSuggestRequestToDomain(req)
	suggestions := schema.SuggestRelationships(tables, columns, keys)
	respond.JSON(w, r, http.StatusOK, adapters.MapDomainRelationshipsToAPI(suggestions))
}
