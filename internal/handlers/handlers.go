// Package handlers implements the HTTP API on top of gin.
//
// Handlers stay thin: authorization and payload validation here, arithmetic
// in the calculator, persistence in storage, recomputation in the engine.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitmate/splitmate/internal/auth"
	"github.com/splitmate/splitmate/internal/engine"
	"github.com/splitmate/splitmate/internal/events"
	"github.com/splitmate/splitmate/internal/models"
	"github.com/splitmate/splitmate/internal/storage"
)

// Handlers bundles the dependencies shared by all route handlers.
type Handlers struct {
	store         storage.Store
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	engine        *engine.Engine
	publisher     *events.Publisher
}

// New creates the handler set. publisher may be nil when Redis is disabled.
func New(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager, eng *engine.Engine, publisher *events.Publisher) *Handlers {
	return &Handlers{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		engine:        eng,
		publisher:     publisher,
	}
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrSharesMismatch),
		errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		slog.Error("Internal error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// publishEvent fires a ledger event, logging instead of failing the request
// when the bus is unavailable; the local recompute trigger has already run.
func (h *Handlers) publishEvent(c *gin.Context, eventType, groupID, entityID, actorID string) {
	if err := h.publisher.Publish(c.Request.Context(), eventType, groupID, entityID, actorID); err != nil {
		slog.Warn("Failed to publish event", "type", eventType, "group_id", groupID, "error", err)
	}
}

// requireGroupMember loads the group and verifies the caller belongs to it.
// On failure the response has already been written and nil is returned.
func (h *Handlers) requireGroupMember(c *gin.Context, groupID, userID string) *models.Group {
	group, err := h.store.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if !group.HasMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you must be a member of this group"})
		return nil
	}
	return group
}
