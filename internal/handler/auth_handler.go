package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visitation-api/internal/models"
	"github.com/noah-isme/visitation-api/internal/service"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
	"github.com/noah-isme/visitation-api/pkg/response"
)

// AuthHandler exposes the administrator login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Login godoc
// @Summary Authenticate administrator
// @Description Verify the administrator credential and issue an access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
