package handlers

import (
	"net/http"

	"github.com/oskars/refinerywatch/internal/auth"
	"github.com/oskars/refinerywatch/internal/server/response"
)

// LoginRequest is the body of POST /api/v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/v1/login.
// @Summary Operator login
// @Description Check the operator credentials and issue a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 401 {object} response.Response{error=response.Error}
// @Router /api/v1/login [post].
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	if err := h.app.Sessions().Login(w, r, req.Username, req.Password); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"authenticated": true,
		"user":          req.Username,
	})
}

// HandleLogout handles POST /api/v1/logout.
// @Summary Operator logout
// @Description Expire the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/logout [post].
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Sessions().Logout(w, r); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, map[string]any{"authenticated": false})
}

// HandleSession handles GET /api/v1/session.
// @Summary Session status
// @Description Report whether the request carries an operator session
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/session [get].
func (h *Handlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.User(r.Context())
	response.OK(w, map[string]any{
		"authenticated": ok,
		"user":          user,
	})
}
