package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/oskars/refinerywatch/internal/server/response"
	"github.com/oskars/refinerywatch/pkg/editor"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// ReplaceStagingRequest is the body of PUT /api/v1/staging.
type ReplaceStagingRequest struct {
	Updates []refineries.Update `json:"updates"`
}

// FieldEditRequest is the body of PATCH /api/v1/staging/{index}.
type FieldEditRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// URLRequest is the body of PUT /api/v1/staging/{index}/urls/{urlIndex}.
type URLRequest struct {
	Value string `json:"value"`
}

// HandleGetStaging handles GET /api/v1/staging.
// @Summary Review staged updates
// @Description Published refineries merged with the pending updates, with change classification
// @Tags staging
// @Produce json
// @Success 200 {object} response.Response{data=refinerywatch.Staging}
// @Failure 401 {object} response.Response{error=response.Error}
// @Router /api/v1/staging [get].
func (h *Handlers) HandleGetStaging(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, client.Staging())
}

// HandleReplaceStaging handles PUT /api/v1/staging.
// @Summary Replace staged updates
// @Description Replace the whole pending update set
// @Tags staging
// @Accept json
// @Produce json
// @Param request body ReplaceStagingRequest true "Updates"
// @Success 200 {object} response.Response{data=refinerywatch.Staging}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Router /api/v1/staging [put].
func (h *Handlers) HandleReplaceStaging(w http.ResponseWriter, r *http.Request) {
	var req ReplaceStagingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	if req.Updates == nil {
		req.Updates = []refineries.Update{}
	}

	h.stage(w, r, func(client stager) error {
		return client.SetUpdates(r.Context(), req.Updates)
	})
}

// HandleEditField handles PATCH /api/v1/staging/{index}.
// @Summary Edit a staged field
// @Description Set one field of the row at index, staging an update if none exists
// @Tags staging
// @Accept json
// @Produce json
// @Param index path int true "Row index"
// @Param request body FieldEditRequest true "Field and value"
// @Success 200 {object} response.Response{data=refinerywatch.Staging}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Router /api/v1/staging/{index} [patch].
func (h *Handlers) HandleEditField(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	var req FieldEditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	field, err := editor.ParseField(req.Field)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	value, err := fieldValue(field, req.Value)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	h.stage(w, r, func(client stager) error {
		return client.SetField(r.Context(), index, field, value)
	})
}

// HandleAddURL handles POST /api/v1/staging/{index}/urls.
// @Summary Add an evidence URL
// @Description Append an empty evidence URL to the row at index
// @Tags staging
// @Produce json
// @Param index path int true "Row index"
// @Success 200 {object} response.Response{data=refinerywatch.Staging}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/staging/{index}/urls [post].
func (h *Handlers) HandleAddURL(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	h.stage(w, r, func(client stager) error {
		return client.AddVideoURL(r.Context(), index)
	})
}

// HandleSetURL handles PUT /api/v1/staging/{index}/urls/{urlIndex}.
// @Summary Set an evidence URL
// @Description Replace one evidence URL of the row at index
// @Tags staging
// @Accept json
// @Produce json
// @Param index path int true "Row index"
// @Param urlIndex path int true "URL index"
// @Param request body URLRequest true "URL"
// @Success 200 {object} response.Response{data=refinerywatch.Staging}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/staging/{index}/urls/{urlIndex} [put].
func (h *Handlers) HandleSetURL(w http.ResponseWriter, r *http.Request) {
	index, urlIndex, err := urlIndexes(r)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	var req URLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	h.stage(w, r, func(client stager) error {
		return client.SetVideoURL(r.Context(), index, urlIndex, req.Value)
	})
}

// HandleRemoveURL handles DELETE /api/v1/staging/{index}/urls/{urlIndex}.
// @Summary Remove an evidence URL
// @Description Remove one evidence URL of the row at index
// @Tags staging
// @Produce json
// @Param index path int true "Row index"
// @Param urlIndex path int true "URL index"
// @Success 200 {object} response.Response{data=refinerywatch.Staging}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/staging/{index}/urls/{urlIndex} [delete].
func (h *Handlers) HandleRemoveURL(w http.ResponseWriter, r *http.Request) {
	index, urlIndex, err := urlIndexes(r)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	h.stage(w, r, func(client stager) error {
		return client.RemoveVideoURL(r.Context(), index, urlIndex)
	})
}

// stager is the part of the client the staging handlers edit through.
type stager interface {
	SetUpdates(ctx context.Context, updates []refineries.Update) error
	SetField(ctx context.Context, index int, field editor.Field, value any) error
	AddVideoURL(ctx context.Context, index int) error
	SetVideoURL(ctx context.Context, index, urlIndex int, value string) error
	RemoveVideoURL(ctx context.Context, index, urlIndex int) error
}

// stage applies edit and answers with the refreshed staging view.
func (h *Handlers) stage(w http.ResponseWriter, r *http.Request, edit func(stager) error) {
	client, err := h.app.Client(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	if err := edit(client); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, client.Staging())
}

func urlIndexes(r *http.Request) (int, int, error) {
	index, err := pathIndex(r, "index")
	if err != nil {
		return 0, 0, err
	}
	urlIndex, err := pathIndex(r, "urlIndex")
	if err != nil {
		return 0, 0, err
	}
	return index, urlIndex, nil
}

// fieldValue decodes the JSON value of an edit into the Go type the
// editor expects for field.
func fieldValue(field editor.Field, raw json.RawMessage) (any, error) {
	invalid := func(err error) error {
		return errors.NewValidationError(string(field), string(raw), "invalid value: "+err.Error())
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	switch field {
	case editor.FieldLastIncidentDate:
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		return v, nil
	case editor.FieldIncidentVideoURLs:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		if v == nil {
			v = []string{}
		}
		return v, nil
	default:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		return v, nil
	}
}
