package handlers

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/api/dto"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/gin-gonic/gin"
)

// ==============================================
// SERVICE INTERFACE (for testing)
// ==============================================

type SessionService interface {
	Login(ctx context.Context, h *session.Handle, role models.Role, req models.LoginRequest) error
	Logout(ctx context.Context, h *session.Handle) error
	RefreshProfile(ctx context.Context, h *session.Handle) (*models.UserProfile, error)
}

// ViewForgetter drops per-client state held outside the session.
type ViewForgetter interface {
	Forget(clientID string)
}

// ==============================================
// HANDLER
// ==============================================

type AuthHandler struct {
	sessions SessionService
	views    ViewForgetter
}

func NewAuthHandler(sessions SessionService, views ViewForgetter) *AuthHandler {
	return &AuthHandler{sessions: sessions, views: views}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	sess := currentSession(c)
	err := h.sessions.Login(c.Request.Context(), sess, role, models.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.views.Forget(sess.ClientID())

	respondSuccess(c, http.StatusOK, sessionResponse(sess))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.sessions.Logout(c.Request.Context(), sess); err != nil {
		respondServiceError(c, err)
		return
	}
	h.views.Forget(sess.ClientID())
	respondSuccess(c, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Session handles GET /api/v1/auth/session. ?refresh=true re-fetches the profile.
func (h *AuthHandler) Session(c *gin.Context) {
	sess := currentSession(c)
	if sess.Authenticated() && c.Query("refresh") == "true" {
		if _, err := h.sessions.RefreshProfile(c.Request.Context(), sess); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	respondSuccess(c, http.StatusOK, sessionResponse(sess))
}

func sessionResponse(sess *session.Handle) dto.SessionResponse {
	if !sess.Authenticated() {
		return dto.SessionResponse{}
	}
	return dto.SessionResponse{Authenticated: true, Role: sess.Role(), User: sess.User()}
}

// ==============================================
// ROUTE REGISTRATION
// ==============================================

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)
	}
}
