package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck-backend/pkg/ai"
	mw "github.com/taskdeck/taskdeck-backend/pkg/apihelpers/middlewares"
)

func (h *HttpEndpoints) AddAIAssistAPI(rg *gin.RouterGroup) {
	aiGroup := rg.Group("/ai")
	aiGroup.Use(mw.GetAndValidateAccountJWT(h.tokenSignKey, h.accountDBConn))
	aiGroup.Use(h.requireVerifiedSession())
	{
		aiGroup.POST("/assist", mw.RequirePayload(), h.aiAssist)
	}
}

type AIAssistReq struct {
	Action string `json:"action"` // "draft" or "improve"
	Text   string `json:"text"`
}

func (h *HttpEndpoints) aiAssist(c *gin.Context) {
	var req AIAssistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	var result string
	var err error
	switch req.Action {
	case "draft":
		result, err = h.aiClient.DraftTaskDescription(c.Request.Context(), req.Text)
	case "improve":
		result, err = h.aiClient.ImproveText(c.Request.Context(), req.Text)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			slog.Error("ai assist requested but client is not configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ai assist not available"})
			return
		}
		slog.Error("ai assist call failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "ai assist failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
