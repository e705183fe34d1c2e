package handler

import (
	"context"
	"net/http"

	"blogger-api/common"
	"blogger-api/logger"
	"blogger-api/metrics"
	"blogger-api/model"
	"blogger-api/service"
)

// IdentityService is what the identity endpoints need from the auth service.
type IdentityService interface {
	Register(ctx context.Context, email, password string) service.AuthResult
	Login(ctx context.Context, email, password string) service.AuthResult
	RefreshToken(ctx context.Context, accessToken, refreshToken string) service.AuthResult
}

type IdentityHandler struct {
	service IdentityService
	metrics *metrics.Collector
}

// NewIdentityHandler creates the identity handler. collector may be nil.
func NewIdentityHandler(service IdentityService, collector *metrics.Collector) *IdentityHandler {
	return &IdentityHandler{service: service, metrics: collector}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user and returns an access token with its refresh token
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        request  body      model.RegisterRequest  true  "Credentials"
// @Success      200      {object}  model.AuthSuccessResponse
// @Failure      400      {object}  model.AuthFailedResponse
// @Failure      500      {object}  model.AuthFailedResponse
// @Router       /api/v1/identity/register [post]
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if messages := common.DecodeAndValidate(r, &req); messages != nil {
		h.reject(w, "register", messages)
		return
	}

	h.respond(w, "register", h.service.Register(r.Context(), req.Email, req.Password))
}

// Login godoc
// @Summary      Log in
// @Description  Verifies the credentials and returns a new token pair
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Credentials"
// @Success      200      {object}  model.AuthSuccessResponse
// @Failure      400      {object}  model.AuthFailedResponse
// @Failure      500      {object}  model.AuthFailedResponse
// @Router       /api/v1/identity/login [post]
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if messages := common.DecodeAndValidate(r, &req); messages != nil {
		h.reject(w, "login", messages)
		return
	}

	h.respond(w, "login", h.service.Login(r.Context(), req.Email, req.Password))
}

// Refresh godoc
// @Summary      Refresh an access token
// @Description  Exchanges an expired access token and its refresh token for a new pair. Each refresh token works once.
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        request  body      model.RefreshTokenRequest  true  "Token pair"
// @Success      200      {object}  model.AuthSuccessResponse
// @Failure      400      {object}  model.AuthFailedResponse
// @Failure      500      {object}  model.AuthFailedResponse
// @Router       /api/v1/identity/refresh [post]
func (h *IdentityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshTokenRequest
	if messages := common.DecodeAndValidate(r, &req); messages != nil {
		h.reject(w, "refresh", messages)
		return
	}

	h.respond(w, "refresh", h.service.RefreshToken(r.Context(), req.Token, req.RefreshToken))
}

func (h *IdentityHandler) respond(w http.ResponseWriter, operation string, res service.AuthResult) {
	h.metrics.RecordAuthOutcome(operation, string(res.Kind))

	if !res.Success {
		status := http.StatusBadRequest
		if res.Kind == service.KindInternal {
			status = http.StatusInternalServerError
		}
		logger.Log.WithField("kind", res.Kind).Debugf("%s failed", operation)
		common.WriteJSON(w, status, model.AuthFailedResponse{ErrorMessages: res.ErrorMessages})
		return
	}

	common.WriteJSON(w, http.StatusOK, model.AuthSuccessResponse{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
	})
}

func (h *IdentityHandler) reject(w http.ResponseWriter, operation string, messages []string) {
	h.metrics.RecordAuthOutcome(operation, "InvalidRequest")
	common.WriteJSON(w, http.StatusBadRequest, model.AuthFailedResponse{ErrorMessages: messages})
}
