package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// ClientCookie identifies a browser to the gateway.
	ClientCookie = "sh_client"

	clientIDKey = "client_id"
	sessionKey  = "session"
)

// ClientID assigns every browser an opaque id cookie. Client storage is keyed by it.
func ClientID(ttl time.Duration, secure bool) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)
	return func(c *gin.Context) {
		id, err := c.Cookie(ClientCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ClientCookie, id, maxAge, "/", "", secure, true)
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// SessionLoader restores a client's session from storage.
type SessionLoader interface {
	Load(ctx context.Context, clientID string) (*session.Handle, error)
}

// LoadSession attaches the client's session handle to the request.
func LoadSession(loader SessionLoader) gin.HandlerFunc {
	log := logging.For("http")
	return func(c *gin.Context) {
		h, err := loader.Load(c.Request.Context(), c.GetString(clientIDKey))
		if err != nil {
			log.WithError(err).Error("session load failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Session storage unavailable",
				"code":    models.ErrCodeInternalError,
				"message": "Please try again shortly.",
			})
			return
		}
		c.Set(sessionKey, h)
		c.Next()
	}
}

// RequireSession rejects anonymous clients.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := currentSession(c)
		if h == nil || !h.Authenticated() {
			respondServiceError(c, models.ErrNotAuthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentSession returns the handle LoadSession attached, or an anonymous one.
func currentSession(c *gin.Context) *session.Handle {
	if v, ok := c.Get(sessionKey); ok {
		if h, ok := v.(*session.Handle); ok {
			return h
		}
	}
	return session.NewHandle(c.GetString(clientIDKey))
}

// RequestLogger logs one line per request with logrus.
func RequestLogger() gin.HandlerFunc {
	log := logging.For("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    c.Writer.Status(),
			"duration":  time.Since(start),
			"client_id": c.GetString(clientIDKey),
		}).Info("request")
	}
}
