package apihandlers

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"

	accountTypes "github.com/taskdeck/taskdeck-backend/pkg/account-management/types"
	umUtils "github.com/taskdeck/taskdeck-backend/pkg/account-management/utils"
	accountDB "github.com/taskdeck/taskdeck-backend/pkg/db/account"
	jwthandling "github.com/taskdeck/taskdeck-backend/pkg/jwt-handling"
)

func randomWait(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}

func accountDBIsDuplicateKeyError(err error) bool {
	return accountDB.IsDuplicateKeyError(err)
}

// recordFailedLoginAttempt appends the current attempt and drops entries
// outside the counting window before persisting.
func (h *HttpEndpoints) recordFailedLoginAttempt(account accountTypes.Account) {
	attempts := umUtils.RemoveAttemptsOlderThan(account.FailedLoginAttempts, loginFailedAttemptWindow)
	attempts = append(attempts, time.Now().Unix())
	if err := h.accountDBConn.SaveFailedLoginAttempts(account.ID.Hex(), attempts); err != nil {
		slog.Error("failed to save failed login attempt", slog.String("error", err.Error()))
	}
}

// accountResponse is the account snapshot returned to the client. The
// session controller bases its gating decision on these fields, so they
// must always reflect the current store state.
func accountResponse(account accountTypes.Account) gin.H {
	return gin.H{
		"id":                account.ID.Hex(),
		"email":             account.Email,
		"name":              account.Name,
		"preferredLanguage": account.PreferredLanguage,
		"verifiedAt":        account.VerifiedAt,
		"otpEnabled":        account.OtpEnabled,
	}
}

// prepareSessionTokens generates the access token and a renew token for
// the session and persists the renew token.
func (h *HttpEndpoints) prepareSessionTokens(account accountTypes.Account, sessionID string, lastOTPProvided int64) (accessToken string, renewToken string, err error) {
	accessToken, err = jwthandling.GenerateNewAccountToken(
		h.tokenExpiresIn,
		account.ID.Hex(),
		account.VerifiedAt > 0,
		lastOTPProvided,
		h.tokenSignKey,
		sessionID,
	)
	if err != nil {
		return "", "", err
	}

	renewToken, err = umUtils.GenerateUniqueTokenString()
	if err != nil {
		return "", "", err
	}

	if err := h.accountDBConn.CreateRenewToken(account.ID.Hex(), renewToken, 0, sessionID); err != nil {
		return "", "", err
	}
	return accessToken, renewToken, nil
}
