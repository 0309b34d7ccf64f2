package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/oskars/refinerywatch/internal/server/cache"
	"github.com/oskars/refinerywatch/internal/server/response"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// HandleListRefineries handles GET /api/v1/refineries.
// @Summary List refineries
// @Description List the published refineries
// @Tags refineries
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/refineries [get].
func (h *Handlers) HandleListRefineries(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	list := cache.Remember(h.cache, cache.KeyRefineries, client.Refineries)
	response.OK(w, map[string]any{
		"refineries": list,
		"count":      len(list),
		"revision":   client.Revision(),
	})
}

// HandleGetRefinery handles GET /api/v1/refineries/{id}.
// @Summary Get refinery
// @Description Get one published refinery by ID
// @Tags refineries
// @Accept json
// @Produce json
// @Param id path string true "Refinery ID"
// @Success 200 {object} response.Response{data=refineries.Refinery}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/refineries/{id} [get].
func (h *Handlers) HandleGetRefinery(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	refinery, err := client.Refinery(r.PathValue("id"))
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, refinery)
}

// HandleListPipelines handles GET /api/v1/pipelines.
// @Summary List pipelines
// @Description List the major pipelines, optionally filtered by status
// @Tags refineries
// @Accept json
// @Produce json
// @Param status query string false "Comma-separated statuses (operational, suspended, destroyed)"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/pipelines [get].
func (h *Handlers) HandleListPipelines(w http.ResponseWriter, r *http.Request) {
	statuses, err := parsePipelineStatuses(r.URL.Query().Get("status"))
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	key := cache.KeyPipelines + joinStatuses(statuses)
	list := cache.Remember(h.cache, key, func() []refineries.Pipeline {
		return client.Pipelines(statuses...)
	})
	response.OK(w, map[string]any{
		"pipelines": list,
		"count":     len(list),
	})
}

// HandleStats handles GET /api/v1/stats.
// @Summary Refinery statistics
// @Description Status counts and the share of refineries knocked out
// @Tags refineries
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=refineries.Stats}
// @Router /api/v1/stats [get].
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, cache.Remember(h.cache, cache.KeyStats, client.Stats))
}

// HandleExport handles GET /api/v1/export.
// @Summary Export refineries
// @Description Download the published refinery list as JSON or YAML
// @Tags refineries
// @Produce json
// @Produce application/yaml
// @Param format query string false "Export format (json, yaml)"
// @Success 200 {file} file
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/export [get].
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		data, err = client.ExportJSON()
		contentType, ext = "application/json", "json"
	case "yaml", "yml":
		data, err = client.ExportYAML()
		contentType, ext = "application/yaml", "yaml"
	default:
		response.BadRequest(w, "Unsupported export format", fmt.Sprintf("format %q is not one of json, yaml", format))
		return
	}
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="refineries.%s"`, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parsePipelineStatuses parses a comma-separated status filter. The result
// is sorted and deduplicated so equal filters share a cache entry.
func parsePipelineStatuses(raw string) ([]refineries.PipelineStatus, error) {
	if raw == "" {
		return nil, nil
	}
	var out []refineries.PipelineStatus
	for part := range strings.SplitSeq(raw, ",") {
		s := refineries.PipelineStatus(strings.ToLower(strings.TrimSpace(part)))
		if s == "" {
			continue
		}
		if !s.Valid() {
			return nil, errors.NewValidationError("status", part, fmt.Sprintf("unknown pipeline status %q", part))
		}
		out = append(out, s)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func joinStatuses(statuses []refineries.PipelineStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
