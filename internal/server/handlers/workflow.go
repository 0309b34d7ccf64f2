package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/internal/server/cache"
	"github.com/oskars/refinerywatch/internal/server/events"
	"github.com/oskars/refinerywatch/internal/server/response"
	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// PublishView is the API shape of a publish or recommit result.
type PublishView struct {
	*refinerywatch.PublishResult
	Committed bool   `json:"committed"`
	Warning   string `json:"warning,omitempty"`
}

func publishView(result *refinerywatch.PublishResult) PublishView {
	return PublishView{
		PublishResult: result,
		Committed:     result.Committed(),
		Warning:       result.Warning(),
	}
}

// HandleFetchIntel handles POST /api/v1/intel/fetch.
// @Summary Fetch intelligence
// @Description Research every refinery and replace the staged updates with the suggestions
// @Tags intel
// @Produce json
// @Success 200 {object} response.Response{data=intel.Report}
// @Failure 409 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/intel/fetch [post].
func (h *Handlers) HandleFetchIntel(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.IntelTimeout)
	defer cancel()

	report, err := client.FetchIntel(ctx)
	switch {
	case err == nil:
		response.OK(w, report)
	case errors.Is(err, errors.ErrInFlight), errors.Is(err, errors.ErrNotConfigured):
		response.ErrorFromType(w, r, err)
	default:
		h.logger.Warn().Err(err).Msg("Intelligence fetch failed")
		response.JSON(w, http.StatusBadGateway, response.Fail(response.CodeBadGateway, constants.IntelFailureMessage, err.Error()))
	}
}

// HandleGetIntel handles GET /api/v1/intel.
// @Summary Latest intelligence report
// @Description The summary and sources of the last fetch
// @Tags intel
// @Produce json
// @Success 200 {object} response.Response{data=intel.Report}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/intel [get].
func (h *Handlers) HandleGetIntel(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	report, ok := client.LatestReport()
	if !ok {
		response.NotFound(w, "No intelligence report yet", "Fetch intelligence first")
		return
	}
	response.OK(w, map[string]any{
		"report":   report,
		"fetching": client.Fetching(),
	})
}

// HandlePublish handles POST /api/v1/publish.
// @Summary Publish staged updates
// @Description Merge the staged updates into the published list, save it and commit it to version control
// @Tags publish
// @Produce json
// @Success 200 {object} response.Response{data=PublishView}
// @Failure 409 {object} response.Response{error=response.Error}
// @Router /api/v1/publish [post].
func (h *Handlers) HandlePublish(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	result, err := client.Publish(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, publishView(result))
}

// HandleRecommit handles POST /api/v1/recommit.
// @Summary Recommit published data
// @Description Send the published list to version control again without touching the staged updates
// @Tags publish
// @Produce json
// @Param force query bool false "Overwrite the remote file even if it changed"
// @Success 200 {object} response.Response{data=PublishView}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Router /api/v1/recommit [post].
func (h *Handlers) HandleRecommit(w http.ResponseWriter, r *http.Request) {
	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		var err error
		if force, err = strconv.ParseBool(raw); err != nil {
			response.BadRequest(w, "Invalid force parameter", err.Error())
			return
		}
	}

	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	result, err := client.Recommit(r.Context(), force)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, publishView(result))
}

// HandleReset handles POST /api/v1/reset.
// @Summary Reset to defaults
// @Description Discard the saved published list and staged updates and reload the built-in refineries
// @Tags publish
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 409 {object} response.Response{error=response.Error}
// @Router /api/v1/reset [post].
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	if err := client.Reset(r.Context()); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	h.cache.Invalidate(cache.KeyRefineries, cache.KeyStats)
	list := client.Refineries()
	h.broker.Publish(events.DataReset, map[string]any{
		"refineries": len(list),
	})

	response.OK(w, map[string]any{
		"status":     "reset",
		"refineries": len(list),
	})
}
