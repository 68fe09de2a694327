package authflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountmanagement "github.com/taskdeck/taskdeck-backend/pkg/account-management"
)

// fakeBackend keeps one account in memory and mimics the server's
// behavior for credentials, code issuance and verification.
type fakeBackend struct {
	email      string
	password   string
	verifiedAt int64
	otpEnabled bool

	signedIn     bool
	otpSecret    string
	otpExpiresAt int64

	issueCalls   int
	signOutCalls int
}

func (f *fakeBackend) SignIn(ctx context.Context, email string, password string) error {
	if email != f.email || password != f.password {
		return accountmanagement.ErrWrongCredentials
	}
	f.signedIn = true
	return nil
}

func (f *fakeBackend) SignUp(ctx context.Context, email string, password string) error {
	if email == f.email {
		return accountmanagement.ErrAccountExists
	}
	f.email = email
	f.password = password
	f.verifiedAt = 0
	f.signedIn = true
	return nil
}

func (f *fakeBackend) CurrentAccount(ctx context.Context) (AccountSnapshot, error) {
	if !f.signedIn {
		return AccountSnapshot{}, accountmanagement.ErrUnauthenticated
	}
	return AccountSnapshot{
		ID:         "acc1",
		Email:      f.email,
		VerifiedAt: f.verifiedAt,
		OtpEnabled: f.otpEnabled,
	}, nil
}

func (f *fakeBackend) IssueOTP(ctx context.Context) error {
	if !f.signedIn {
		return accountmanagement.ErrUnauthenticated
	}
	f.issueCalls += 1
	f.otpSecret = "123456"
	f.otpExpiresAt = time.Now().Add(15 * time.Minute).UnixMilli()
	return nil
}

func (f *fakeBackend) VerifyOTP(ctx context.Context, code string) error {
	if !f.signedIn {
		return accountmanagement.ErrUnauthenticated
	}
	if code != f.otpSecret || f.otpExpiresAt < time.Now().UnixMilli() {
		return accountmanagement.ErrInvalidOrExpiredCode
	}
	f.verifiedAt = time.Now().UnixMilli()
	f.otpSecret = ""
	f.otpExpiresAt = 0
	return nil
}

func (f *fakeBackend) SignOut(ctx context.Context) error {
	f.signedIn = false
	f.signOutCalls += 1
	return nil
}

func TestSignInGate(t *testing.T) {
	t.Run("otp enabled account is always challenged", func(t *testing.T) {
		backend := &fakeBackend{
			email:      "a@b.com",
			password:   "longenough1",
			verifiedAt: time.Now().UnixMilli(),
			otpEnabled: true,
		}
		c := NewController(backend)

		state, err := c.SignIn(context.Background(), "a@b.com", "longenough1")
		require.NoError(t, err)
		assert.Equal(t, StateChallenged, state)
		assert.Equal(t, 1, backend.issueCalls)
	})

	t.Run("verified account with otp disabled skips the challenge", func(t *testing.T) {
		backend := &fakeBackend{
			email:      "a@b.com",
			password:   "longenough1",
			verifiedAt: time.Now().UnixMilli(),
			otpEnabled: false,
		}
		c := NewController(backend)

		state, err := c.SignIn(context.Background(), "a@b.com", "longenough1")
		require.NoError(t, err)
		assert.Equal(t, StateVerified, state)
		assert.Equal(t, 0, backend.issueCalls)
	})

	t.Run("wrong credentials keep the session unauthenticated", func(t *testing.T) {
		backend := &fakeBackend{email: "a@b.com", password: "longenough1"}
		c := NewController(backend)

		state, err := c.SignIn(context.Background(), "a@b.com", "wrongpassword")
		assert.ErrorIs(t, err, accountmanagement.ErrWrongCredentials)
		assert.Equal(t, StateUnauthenticated, state)
	})
}

func TestSignUpGate(t *testing.T) {
	t.Run("fresh account is challenged even with otp disabled", func(t *testing.T) {
		backend := &fakeBackend{otpEnabled: false}
		c := NewController(backend)

		state, err := c.SignUp(context.Background(), "new@b.com", "longenough1")
		require.NoError(t, err)
		assert.Equal(t, StateChallenged, state)
		assert.Equal(t, 1, backend.issueCalls)
	})

	t.Run("duplicate email is rewritten to sign-in suggestion", func(t *testing.T) {
		backend := &fakeBackend{email: "a@b.com", password: "longenough1"}
		c := NewController(backend)

		state, err := c.SignUp(context.Background(), "a@b.com", "otherpassword1")
		assert.ErrorIs(t, err, ErrEmailInUse)
		assert.Equal(t, StateUnauthenticated, state)
	})
}

func TestSubmitCode(t *testing.T) {
	newChallenged := func(t *testing.T) (*Controller, *fakeBackend) {
		backend := &fakeBackend{otpEnabled: true}
		c := NewController(backend)
		state, err := c.SignUp(context.Background(), "a@b.com", "longenough1")
		require.NoError(t, err)
		require.Equal(t, StateChallenged, state)
		return c, backend
	}

	t.Run("correct code verifies the session", func(t *testing.T) {
		c, backend := newChallenged(t)

		state, err := c.SubmitCode(context.Background(), backend.otpSecret)
		require.NoError(t, err)
		assert.Equal(t, StateVerified, state)
		assert.Empty(t, backend.otpSecret)
		assert.Zero(t, backend.otpExpiresAt)
		assert.NotZero(t, backend.verifiedAt)
	})

	t.Run("wrong code keeps the challenge active", func(t *testing.T) {
		c, backend := newChallenged(t)

		state, err := c.SubmitCode(context.Background(), "000000")
		assert.ErrorIs(t, err, accountmanagement.ErrInvalidOrExpiredCode)
		assert.Equal(t, StateChallenged, state)
		assert.Equal(t, "123456", backend.otpSecret)
	})

	t.Run("malformed code is rejected without a backend call", func(t *testing.T) {
		c, _ := newChallenged(t)

		state, err := c.SubmitCode(context.Background(), "12345")
		assert.ErrorIs(t, err, accountmanagement.ErrInvalidOrExpiredCode)
		assert.Equal(t, StateChallenged, state)
	})

	t.Run("expired code keeps the challenge active", func(t *testing.T) {
		c, backend := newChallenged(t)
		backend.otpExpiresAt = time.Now().Add(-time.Minute).UnixMilli()

		state, err := c.SubmitCode(context.Background(), backend.otpSecret)
		assert.ErrorIs(t, err, accountmanagement.ErrInvalidOrExpiredCode)
		assert.Equal(t, StateChallenged, state)
	})

	t.Run("resend invalidates nothing client side", func(t *testing.T) {
		c, backend := newChallenged(t)

		require.NoError(t, c.ResendCode(context.Background()))
		assert.Equal(t, 2, backend.issueCalls)
		assert.Equal(t, StateChallenged, c.State())
	})
}

func TestAbandon(t *testing.T) {
	t.Run("closing the dialog reverts to unauthenticated", func(t *testing.T) {
		backend := &fakeBackend{otpEnabled: true}
		c := NewController(backend)
		_, err := c.SignUp(context.Background(), "a@b.com", "longenough1")
		require.NoError(t, err)

		require.NoError(t, c.Abandon(context.Background()))
		assert.Equal(t, StateUnauthenticated, c.State())
		assert.Equal(t, 1, backend.signOutCalls)
		// outstanding code is left in place server side
		assert.Equal(t, "123456", backend.otpSecret)
	})

	t.Run("abandon reverts even previously verified accounts", func(t *testing.T) {
		backend := &fakeBackend{
			email:      "a@b.com",
			password:   "longenough1",
			verifiedAt: time.Now().UnixMilli(),
			otpEnabled: true,
		}
		c := NewController(backend)
		state, err := c.SignIn(context.Background(), "a@b.com", "longenough1")
		require.NoError(t, err)
		require.Equal(t, StateChallenged, state)

		require.NoError(t, c.Abandon(context.Background()))
		assert.Equal(t, StateUnauthenticated, c.State())
		assert.Equal(t, 1, backend.signOutCalls)
	})

	t.Run("abandon after verification is a no-op", func(t *testing.T) {
		backend := &fakeBackend{otpEnabled: true}
		c := NewController(backend)
		_, err := c.SignUp(context.Background(), "a@b.com", "longenough1")
		require.NoError(t, err)
		_, err = c.SubmitCode(context.Background(), backend.otpSecret)
		require.NoError(t, err)

		require.NoError(t, c.Abandon(context.Background()))
		assert.Equal(t, StateVerified, c.State())
		assert.Equal(t, 0, backend.signOutCalls)
	})
}

func TestNormalizeSignUpError(t *testing.T) {
	t.Run("typed error", func(t *testing.T) {
		assert.ErrorIs(t, NormalizeSignUpError(accountmanagement.ErrAccountExists), ErrEmailInUse)
	})

	t.Run("message inspection fallback", func(t *testing.T) {
		err := errors.New("Email already in use")
		assert.ErrorIs(t, NormalizeSignUpError(err), ErrEmailInUse)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		err := errors.New("connection refused")
		assert.Equal(t, err, NormalizeSignUpError(err))
	})
}
