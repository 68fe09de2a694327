package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	accountmanagement "github.com/taskdeck/taskdeck-backend/pkg/account-management"
	"github.com/taskdeck/taskdeck-backend/pkg/account-management/pwhash"
	accountTypes "github.com/taskdeck/taskdeck-backend/pkg/account-management/types"
	umUtils "github.com/taskdeck/taskdeck-backend/pkg/account-management/utils"
	mw "github.com/taskdeck/taskdeck-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/taskdeck/taskdeck-backend/pkg/jwt-handling"
)

const (
	loginFailedAttemptWindow = 5 * 60 // to count the login failures, seconds
	allowedPasswordAttempts  = 10

	signupRateLimitWindow = 5 * 60 // to count the new signups, seconds
)

func (h *HttpEndpoints) AddAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.loginWithEmail)
		authGroup.POST("/signup", mw.RequirePayload(), h.signupWithEmail)

		authGroup.POST("/token/renew", mw.RequirePayload(), mw.GetAndValidateAccountJWTWithIgnoringExpiration(h.tokenSignKey, h.accountDBConn), h.renewToken)
		authGroup.GET("/token/validate", mw.GetAndValidateAccountJWT(h.tokenSignKey, h.accountDBConn), h.validateToken)
		authGroup.POST("/logout", mw.GetAndValidateAccountJWT(h.tokenSignKey, h.accountDBConn), h.logout)
	}

	otpGroup := authGroup.Group("/otp")
	otpGroup.Use(mw.GetAndValidateAccountJWT(h.tokenSignKey, h.accountDBConn))
	{
		otpGroup.POST("", h.requestOTP)
		otpGroup.POST("/verify", mw.RequirePayload(), h.verifyOTP)
	}
}

type LoginWithEmailReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) loginWithEmail(c *gin.Context) {
	var req LoginWithEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)

	account, err := h.accountDBConn.GetAccountByEmail(req.Email)
	if err != nil {
		slog.Warn("login attempt with wrong email address", slog.String("email", umUtils.BlurEmailAddress(req.Email)), slog.String("error", err.Error()))
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password", "errorCode": "WRONG_CREDENTIALS"})
		return
	}

	if umUtils.HasMoreAttemptsRecently(account.FailedLoginAttempts, allowedPasswordAttempts, loginFailedAttemptWindow) {
		slog.Warn("login attempt with too many failed attempts", slog.String("accountID", account.ID.Hex()))
		h.recordFailedLoginAttempt(account)
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password", "errorCode": "WRONG_CREDENTIALS"})
		return
	}

	match, err := pwhash.ComparePasswordWithHash(account.Password, req.Password)
	if err != nil || !match {
		if err == nil {
			err = errors.New("passwords do not match")
		}
		slog.Warn("login attempt with wrong password", slog.String("accountID", account.ID.Hex()), slog.String("error", err.Error()))
		h.recordFailedLoginAttempt(account)
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password", "errorCode": "WRONG_CREDENTIALS"})
		return
	}

	sessionID := uuid.NewString()

	token, renewToken, err := h.prepareSessionTokens(account, sessionID, 0)
	if err != nil {
		slog.Error("failed to prepare session tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.accountDBConn.UpdateLoginTimestamps(account.ID.Hex()); err != nil {
		slog.Error("failed to update login timestamps", slog.String("error", err.Error()))
	}
	if err := h.accountDBConn.ResetFailedLoginAttempts(account.ID.Hex()); err != nil {
		slog.Error("failed to reset failed login attempts", slog.String("error", err.Error()))
	}

	slog.Info("login successful", slog.String("subject", account.ID.Hex()))

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"renewToken":  renewToken,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
		"account":     accountResponse(account),
	})
}

type SignupWithEmailReq struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	Name              string `json:"name"`
	InfoCheck         string `json:"infoCheck"`
	PreferredLanguage string `json:"preferredLanguage"`
}

func (h *HttpEndpoints) signupWithEmail(c *gin.Context) {
	var req SignupWithEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if req.InfoCheck != "" {
		slog.Warn("honeypot field filled out", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid request"})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)

	if !umUtils.CheckEmailFormat(req.Email) {
		slog.Error("invalid email format", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}

	if !umUtils.CheckPasswordFormat(req.Password) {
		slog.Error("invalid password format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid password format"})
		return
	}

	// rate limit
	newAccountCount, err := h.accountDBConn.CountRecentlyCreatedAccounts(signupRateLimitWindow)
	if err != nil {
		slog.Error("failed to count new accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if newAccountCount >= int64(h.maxNewAccountsPer5Minutes) {
		slog.Warn("rate limit for new accounts reached")
		randomWait(5, 10)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "try again later"})
		return
	}

	// hash password
	password, err := pwhash.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	newAccount := accountTypes.Account{
		Email:             req.Email,
		Name:              req.Name,
		Password:          password,
		PreferredLanguage: req.PreferredLanguage,
		OtpEnabled:        true,
		Timestamps: accountTypes.Timestamps{
			CreatedAt: time.Now().Unix(),
			UpdatedAt: time.Now().Unix(),
		},
	}
	id, err := h.accountDBConn.AddAccount(newAccount)
	if err != nil {
		if accountDBIsDuplicateKeyError(err) {
			slog.Warn("signup attempt with existing email", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
			randomWait(5, 10)
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists", "errorCode": "ACCOUNT_EXISTS"})
			return
		}
		slog.Error("failed to create new account", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	newAccount.ID, _ = primitive.ObjectIDFromHex(id)

	sessionID := uuid.NewString()

	token, renewToken, err := h.prepareSessionTokens(newAccount, sessionID, 0)
	if err != nil {
		slog.Error("failed to prepare session tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("signup successful", slog.String("subject", newAccount.ID.Hex()))

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"renewToken":  renewToken,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
		"account":     accountResponse(newAccount),
	})
}

func (h *HttpEndpoints) requestOTP(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	err := accountmanagement.IssueOTP(c.Request.Context(), token.Subject)
	if err != nil {
		if errors.Is(err, accountmanagement.ErrAccountNotFound) {
			slog.Warn("account not found for OTP request", slog.String("subject", token.Subject))
			randomWait(2, 5)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found", "errorCode": "ACCOUNT_NOT_FOUND"})
			return
		}
		slog.Error("failed to issue OTP", slog.String("error", err.Error()))
		randomWait(2, 5)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

type VerifyOTPReq struct {
	Code string `json:"code"`
}

func (h *HttpEndpoints) verifyOTP(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	var req VerifyOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := strings.TrimSpace(req.Code)
	err := accountmanagement.VerifyOTP(c.Request.Context(), token.Subject, code)
	if err != nil {
		if errors.Is(err, accountmanagement.ErrInvalidOrExpiredCode) {
			slog.Warn("failed OTP verification", slog.String("subject", token.Subject))
			randomWait(5, 10)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code", "errorCode": "INVALID_OR_EXPIRED_CODE"})
			return
		}
		slog.Warn("failed to verify OTP", slog.String("error", err.Error()), slog.String("subject", token.Subject))
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found", "errorCode": "ACCOUNT_NOT_FOUND"})
		return
	}

	account, err := h.accountDBConn.GetAccount(c.Request.Context(), token.Subject)
	if err != nil {
		slog.Warn("account not found after OTP verification", slog.String("subject", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found", "errorCode": "ACCOUNT_NOT_FOUND"})
		return
	}

	// verification upgrades the session, so issue fresh tokens
	newToken, renewToken, err := h.prepareSessionTokens(account, token.SessionID, time.Now().UnixMilli())
	if err != nil {
		slog.Error("failed to prepare session tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": newToken,
		"renewToken":  renewToken,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
		"account":     accountResponse(account),
	})
}

type RenewTokenReq struct {
	RenewToken string `json:"renewToken"`
}

func (h *HttpEndpoints) renewToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	var req RenewTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// check if account still exists
	account, err := h.accountDBConn.GetAccount(c.Request.Context(), token.Subject)
	if err != nil {
		slog.Warn("account not found", slog.String("subject", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	newRenewToken, err := umUtils.GenerateUniqueTokenString()
	if err != nil {
		slog.Error("failed to generate renew token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// Check if previous token is still valid
	rt, err := h.accountDBConn.FindAndUpdateRenewToken(
		token.Subject,
		req.RenewToken,
		newRenewToken,
	)
	if err != nil {
		slog.Error("failed to find and update renew token", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if rt.NextToken == newRenewToken {
		// this is the first time the renew token is used
		err = h.accountDBConn.CreateRenewToken(token.Subject, newRenewToken, 0, token.SessionID)
		if err != nil {
			slog.Error("failed to save renew token", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	} else {
		newRenewToken = rt.NextToken
	}

	if err := h.accountDBConn.UpdateTokenRefreshTimestamp(token.Subject); err != nil {
		slog.Error("failed to update token refresh timestamp", slog.String("error", err.Error()))
	}

	newJwt, err := jwthandling.GenerateNewAccountToken(
		h.tokenExpiresIn,
		account.ID.Hex(),
		account.VerifiedAt > 0,
		token.LastOTPProvided,
		h.tokenSignKey,
		token.SessionID,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("token renewed", slog.String("subject", account.ID.Hex()))

	c.JSON(http.StatusOK, gin.H{
		"accessToken": newJwt,
		"renewToken":  newRenewToken,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
		"account":     accountResponse(account),
	})
}

func (h *HttpEndpoints) validateToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	// check if account still exists
	_, err := h.accountDBConn.GetAccount(c.Request.Context(), token.Subject)
	if err != nil {
		slog.Warn("account not found", slog.String("subject", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokenInfos": token})
}

func (h *HttpEndpoints) logout(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)
	tokenString := c.MustGet("token").(string)

	count, err := h.accountDBConn.DeleteRenewTokensForSession(token.Subject, token.SessionID)
	if err != nil {
		slog.Error("failed to delete renew tokens during logout", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	err = h.accountDBConn.AddBlockedJwt(
		tokenString,
		token.ExpiresAt.Time,
	)
	if err != nil {
		slog.Error("failed to add blocked JWT", slog.String("error", err.Error()))
	}

	slog.Info("account logged out", slog.String("subject", token.Subject), slog.Int64("tokensRevoked", count))
	c.JSON(http.StatusOK, gin.H{
		"message":       "logout successful",
		"tokensRevoked": count,
	})
}
