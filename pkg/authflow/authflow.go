package authflow

import (
	"context"
	"errors"
	"regexp"
	"strings"

	accountmanagement "github.com/taskdeck/taskdeck-backend/pkg/account-management"
)

// Session states held by the client. The server never stores these, they
// are derived from the account's verification fields after each call.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateProvisional     State = "provisional"
	StateChallenged      State = "challenged"
	StateVerified        State = "verified"
)

// ErrEmailInUse replaces duplicate-registration errors from the backend
// with a prompt suggesting sign-in instead of sign-up.
var ErrEmailInUse = errors.New("this email is already registered, try signing in instead")

var codeFormatRegexp = regexp.MustCompile(`^[0-9]{6}$`)

// AccountSnapshot is the subset of account fields the session controller
// needs for its gating decision, freshly fetched after each transition.
type AccountSnapshot struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	VerifiedAt int64  `json:"verifiedAt,omitempty"`
	OtpEnabled bool   `json:"otpEnabled"`
}

// OTPRequired is the policy gate evaluated once per login, after the
// credential check passed. First time verification is mandatory, after
// that the account level toggle decides.
func (a AccountSnapshot) OTPRequired() bool {
	return a.VerifiedAt == 0 || a.OtpEnabled
}

// Backend is the server boundary the session controller drives.
type Backend interface {
	SignIn(ctx context.Context, email string, password string) error
	SignUp(ctx context.Context, email string, password string) error
	CurrentAccount(ctx context.Context) (AccountSnapshot, error)
	IssueOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context, code string) error
	SignOut(ctx context.Context) error
}

// NormalizeSignUpError rewrites duplicate-registration failures into
// ErrEmailInUse. Typed errors are preferred, message inspection is the
// fallback for providers that only return strings.
func NormalizeSignUpError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, accountmanagement.ErrAccountExists) {
		return ErrEmailInUse
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "already in use") || strings.Contains(msg, "already exists") || strings.Contains(msg, "already registered") {
		return ErrEmailInUse
	}
	return err
}

func isValidCodeFormat(code string) bool {
	return codeFormatRegexp.MatchString(code)
}
