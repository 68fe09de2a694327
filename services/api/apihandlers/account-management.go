package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/taskdeck/taskdeck-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/taskdeck/taskdeck-backend/pkg/jwt-handling"
)

func (h *HttpEndpoints) AddAccountAPI(rg *gin.RouterGroup) {
	accountsGroup := rg.Group("/accounts")
	accountsGroup.Use(mw.GetAndValidateAccountJWT(h.tokenSignKey, h.accountDBConn))
	{
		accountsGroup.GET("/me", h.getCurrentAccount)
		accountsGroup.PUT("", mw.RequirePayload(), h.updateAccount)
		accountsGroup.DELETE("", h.deleteAccount)
	}
}

func (h *HttpEndpoints) getCurrentAccount(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	account, err := h.accountDBConn.GetAccount(c.Request.Context(), token.Subject)
	if err != nil {
		slog.Warn("account not found", slog.String("subject", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found", "errorCode": "ACCOUNT_NOT_FOUND"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": accountResponse(account)})
}

type UpdateAccountReq struct {
	Name       *string `json:"name"`
	OtpEnabled *bool   `json:"otpEnabled"`
}

// updateAccount patches the profile fields. OtpEnabled is the single
// source of truth for the login gate, the client never caches it for
// authorization decisions.
func (h *HttpEndpoints) updateAccount(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	var req UpdateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name == nil && req.OtpEnabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := h.accountDBConn.UpdateAccount(token.Subject, req.Name, req.OtpEnabled); err != nil {
		slog.Error("failed to update account", slog.String("subject", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	account, err := h.accountDBConn.GetAccount(c.Request.Context(), token.Subject)
	if err != nil {
		slog.Error("failed to get account after update", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("account updated", slog.String("subject", token.Subject))
	c.JSON(http.StatusOK, gin.H{"account": accountResponse(account)})
}

func (h *HttpEndpoints) deleteAccount(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)
	tokenString := c.MustGet("token").(string)

	if err := h.accountDBConn.DeleteAccount(token.Subject); err != nil {
		slog.Error("failed to delete account", slog.String("subject", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if count, err := h.taskDBConn.DeleteTasksForOwner(token.Subject); err != nil {
		slog.Error("failed to delete tasks for account", slog.String("error", err.Error()))
	} else {
		slog.Debug("deleted tasks for account", slog.Int64("count", count))
	}

	if _, err := h.accountDBConn.DeleteRenewTokensForAccount(token.Subject); err != nil {
		slog.Error("failed to delete renew tokens for account", slog.String("error", err.Error()))
	}

	if err := h.accountDBConn.AddBlockedJwt(tokenString, token.ExpiresAt.Time); err != nil {
		slog.Error("failed to add blocked JWT", slog.String("error", err.Error()))
	}

	slog.Info("account deleted", slog.String("subject", token.Subject))
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
