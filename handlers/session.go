package handlers

import (
	"net/http"

	"careline/services/session"
	"careline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetSessionHandler returns the stored state of a conversation.
func GetSessionHandler(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		id := c.Param("id")
		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			logger.Error("session lookup failed", zap.Error(err), zap.String("session", id))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to load session", "")
			return
		}
		if sess == nil {
			utils.JSONError(c, http.StatusNotFound, "Session not found", "")
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// DeleteSessionHandler ends a conversation and discards its state.
func DeleteSessionHandler(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		id := c.Param("id")
		if err := store.Delete(c.Request.Context(), id); err != nil {
			logger.Error("session delete failed", zap.Error(err), zap.String("session", id))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to delete session", "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}
