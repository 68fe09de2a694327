package accountmanagement

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck-backend/pkg/account-management/types"
	umUtils "github.com/taskdeck/taskdeck-backend/pkg/account-management/utils"
)

const (
	OTPLifetime = 15 * time.Minute
)

// AccountStore is the credential store boundary used by the OTP issuer and
// verifier. The mongo account DB service implements it.
type AccountStore interface {
	GetAccount(ctx context.Context, accountID string) (types.Account, error)

	// SetOTPChallenge persists secret and expiry in one atomic patch,
	// overwriting any outstanding challenge.
	SetOTPChallenge(ctx context.Context, accountID string, secret string, expiresAt int64) error

	// ConsumeOTPChallenge atomically compares the submitted code against the
	// stored secret and expiry, and on match marks the account verified and
	// clears both challenge fields. Returns false without touching the
	// account when the code does not match or has expired.
	ConsumeOTPChallenge(ctx context.Context, accountID string, code string, now int64) (bool, error)
}

// CodeSender dispatches a verification code to an email address.
type CodeSender func(email string, code string, preferredLang string, expiresAt int64) error

var (
	accountStore AccountStore
	codeSender   CodeSender
)

func Init(store AccountStore, sender CodeSender) {
	accountStore = store
	codeSender = sender
}

// IssueOTP generates a fresh code for the account, stores it with its expiry
// and schedules the email dispatch. The send is fire and forget: the call
// returns once the challenge is persisted, delivery failures are only logged.
func IssueOTP(ctx context.Context, accountID string) error {
	if accountID == "" {
		return ErrUnauthenticated
	}

	account, err := accountStore.GetAccount(ctx, accountID)
	if err != nil {
		slog.Warn("failed to get account for OTP issue", slog.String("accountID", accountID), slog.String("error", err.Error()))
		return ErrAccountNotFound
	}
	if account.Email == "" {
		return ErrAccountNotFound
	}

	code, err := umUtils.GenerateOTPCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(OTPLifetime).UnixMilli()

	if err := accountStore.SetOTPChallenge(ctx, accountID, code, expiresAt); err != nil {
		return err
	}

	go func() {
		if err := codeSender(account.Email, code, account.PreferredLanguage, expiresAt); err != nil {
			slog.Error("failed to send verification code",
				slog.String("email", umUtils.BlurEmailAddress(account.Email)),
				slog.String("error", err.Error()))
		}
	}()

	slog.Info("OTP issued", slog.String("accountID", accountID))
	return nil
}

// VerifyOTP checks the submitted code against the outstanding challenge. On
// success the account is marked verified and the challenge is cleared in the
// same patch. On mismatch or expiry the account is left unchanged so the code
// stays re-enterable until it legitimately expires or gets superseded.
func VerifyOTP(ctx context.Context, accountID string, code string) error {
	if accountID == "" {
		return ErrUnauthenticated
	}

	ok, err := accountStore.ConsumeOTPChallenge(ctx, accountID, code, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	if !ok {
		if _, err := accountStore.GetAccount(ctx, accountID); err != nil {
			return ErrAccountNotFound
		}
		return ErrInvalidOrExpiredCode
	}

	slog.Info("OTP verified", slog.String("accountID", accountID))
	return nil
}
