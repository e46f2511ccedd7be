package handlers

import (
	"net/http"
	"strings"

	"careline/models"
	"careline/services/dispatch"
	"careline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatRequest is the input for one conversational turn. SessionID is
// optional; when omitted a new conversation is started and the generated
// ID is returned in the result.
type ChatRequest struct {
	Message             string        `json:"message"`
	SessionID           string        `json:"sessionId"`
	ConversationHistory []models.Turn `json:"conversationHistory"`
}

// ChatHandler runs one turn through the dispatcher.
func ChatHandler(svc *dispatch.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("invalid chat request", zap.Error(err))
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			utils.JSONError(c, http.StatusBadRequest, "Message is required", "")
			return
		}

		result := svc.Turn(c.Request.Context(), req.SessionID, req.Message, req.ConversationHistory)
		c.JSON(http.StatusOK, result)
	}
}
