package api

import (
	"context"
	"net/http"

	"github.com/okian/unirank/internal/adapters/dataset"
	"github.com/okian/unirank/internal/domain/types"
)

// OptionsDependencies defines the interface for listing control values.
type OptionsDependencies interface {
	Options(ctx context.Context) (types.Options, error)
}

// OptionsHandler handles option list requests.
type OptionsHandler struct {
	deps OptionsDependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsDependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleGetOptions handles GET /api/options requests.
func (h *OptionsHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_options"
	if r.Method != http.MethodGet {
		fail(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// ReloadDependencies defines the interface for dataset reloads.
type ReloadDependencies interface {
	Reload(ctx context.Context) (dataset.Report, error)
}

// ReloadHandler handles dataset reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Status string         `json:"status"`
	Report dataset.Report `json:"report"`
}

// HandleReload handles POST /api/reload requests. A failed reload leaves the
// previous dataset in service.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if r.Method != http.MethodPost {
		fail(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	rep, err := h.deps.Reload(r.Context())
	if err != nil {
		fail(w, WrapKind(op, ErrReload, err))
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded", Report: rep})
}
