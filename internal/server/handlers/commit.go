package handlers

import (
	"net/http"

	"github.com/oskars/refinerywatch/internal/server/response"
	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// HandleCommitRefineries handles POST /api/v1/commit-refineries and the
// legacy /api/commit-refineries.
//
// It regenerates the data file from the posted list and writes it to the
// configured version control backend. Its wire format is the bare
// commit.Response / commit.ErrorResponse pair, not the API envelope.
// @Summary Commit refinery data
// @Description Write the refinery list to version control as a new revision
// @Tags commit
// @Accept json
// @Produce json
// @Param request body commit.Request true "Refinery list and last known revision"
// @Success 200 {object} commit.Response
// @Failure 400 {object} commit.ErrorResponse
// @Failure 409 {object} commit.ErrorResponse
// @Failure 502 {object} commit.ErrorResponse
// @Failure 503 {object} commit.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/commit-refineries [post].
func (h *Handlers) HandleCommitRefineries(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req commit.Request
	if err := decodeJSON(w, r, &req); err != nil {
		response.Raw(w, http.StatusBadRequest, commit.ErrorResponse{Error: "Invalid refineries data", Details: err.Error()})
		return
	}
	if req.Refineries == nil {
		response.Raw(w, http.StatusBadRequest, commit.ErrorResponse{Error: "Invalid refineries data", Details: "refineries must be an array"})
		return
	}
	if err := refineries.ValidateList(req.Refineries); err != nil {
		response.Raw(w, http.StatusBadRequest, commit.ErrorResponse{Error: "Invalid refineries data", Details: err.Error()})
		return
	}

	committer, err := h.app.VCSCommitter(r.Context())
	if err != nil {
		response.Raw(w, http.StatusServiceUnavailable, commit.ErrorResponse{Error: "Commit backend not configured", Details: err.Error()})
		return
	}

	receipt, err := committer.Commit(r.Context(), req.Refineries, req.Revision)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrConflict):
		log.Warn().Err(err).Msg("Commit rejected, remote data changed")
		response.Raw(w, http.StatusConflict, commit.ErrorResponse{Error: "Remote data changed since last read", Details: err.Error()})
		return
	case errors.Is(err, errors.ErrNotConfigured):
		response.Raw(w, http.StatusServiceUnavailable, commit.ErrorResponse{Error: "Commit backend not configured", Details: err.Error()})
		return
	default:
		log.Error().Err(err).Msg("Commit failed")
		response.Raw(w, http.StatusBadGateway, commit.ErrorResponse{Error: "Failed to commit", Details: err.Error()})
		return
	}

	response.Raw(w, http.StatusOK, commit.Response{
		Success:  true,
		Commit:   receipt.Commit,
		Revision: receipt.Revision,
		Message:  receipt.Message,
	})
}
