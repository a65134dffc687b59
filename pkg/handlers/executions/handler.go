package executions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/handlers/respond"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/services/execution"
	"github.com/de-tools/report-atlas/pkg/store/client"
	history "github.com/de-tools/report-atlas/pkg/store/duckdb/execution"
	"github.com/go-chi/chi/v5"
)

const defaultHistoryLimit = 50

type Handler struct {
	controller execution.Controller
	history    history.Store
}

// NewHandler serves execution endpoints. store may be nil, in which case the
// history endpoint answers 404.
func NewHandler(controller execution.Controller, store history.Store) *Handler {
	return &Handler{controller: controller, history: store}
}

// Execute starts a report run and returns immediately with 202; the poll
// continues in the background.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	reportID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	executionID, err := h.controller.Start(r.Context(), reportID)
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusAccepted, api.ExecutionStatus{
		ExecutionID: executionID,
		ReportID:    reportID,
		Status:      "pending",
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	executionID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	snapshot, err := h.controller.Status(executionID)
	if errors.Is(err, execution.ErrNotTracked) && h.history != nil {
		// not watched by this process, e.g. after a restart
		record, histErr := h.history.Get(r.Context(), executionID)
		if histErr == nil {
			respond.JSON(w, r, http.StatusOK, adapters.MapStoreExecutionRecordToStatus(record))
			return
		}
		if !errors.Is(histErr, history.ErrExecutionNotFound) {
			respond.Error(w, r, http.StatusInternalServerError, histErr)
			return
		}
	}
	if err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.JSON(w, r, http.StatusOK, mapSnapshot(snapshot))
}

// Cancel stops watching the execution; the run on the service is not aborted.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	executionID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.controller.Cancel(r.Context(), executionID); err != nil {
		respond.Error(w, r, statusFor(err), err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respond.Error(w, r, http.StatusNotFound, errors.New("execution history is disabled"))
		return
	}

	filter := history.Filter{Limit: defaultHistoryLimit}
	if v := r.URL.Query().Get("report"); v != "" {
		reportID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, fmt.Errorf("invalid report id %q", v))
			return
		}
		filter.ReportID = &reportID
	}
	if statuses, ok := r.URL.Query()["status"]; ok {
		filter.Statuses = statuses
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		filter.Limit = limit
	}

	records, err := h.history.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.ExecutionRecord, 0, len(records))
	for _, rec := range records {
		response = append(response, adapters.MapStoreExecutionRecordToAPI(rec))
	}
	respond.JSON(w, r, http.StatusOK, response)
}

func mapSnapshot(s execution.Snapshot) api.ExecutionStatus {
	out := api.ExecutionStatus{
		ExecutionID: s.ExecutionID,
		ReportID:    s.ReportID,
		Done:        s.Done,
		Status:      "running",
	}
	if s.Result != nil {
		out.Status = string(s.Result.Status)
		out.FileURL = s.Result.FileURL
		out.GeneratedAt = s.Result.GeneratedAt
		out.Attempts = s.Result.Attempts
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, execution.ErrNotTracked):
		return http.StatusNotFound
	case errors.Is(err, client.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
