package authflow

import (
	"context"
	"errors"
	"sync"

	accountmanagement "github.com/taskdeck/taskdeck-backend/pkg/account-management"
)

// Controller is the client side session state machine. All transitions
// are driven by user events or the resolution of the issue and verify
// calls, there is no polling.
type Controller struct {
	mu      sync.Mutex
	backend Backend
	state   State
	account AccountSnapshot
}

func NewController(backend Backend) *Controller {
	return &Controller{
		backend: backend,
		state:   StateUnauthenticated,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Account() AccountSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

// SignIn submits credentials and runs the post-login gate. Returns the
// resulting state, either StateChallenged or StateVerified on success.
func (c *Controller) SignIn(ctx context.Context, email string, password string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.SignIn(ctx, email, password); err != nil {
		c.state = StateUnauthenticated
		return c.state, err
	}
	c.state = StateProvisional
	return c.runPostAuthGate(ctx)
}

// SignUp creates the account and runs the same gate. A new account never
// has a verification timestamp, so this always ends in StateChallenged.
func (c *Controller) SignUp(ctx context.Context, email string, password string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.SignUp(ctx, email, password); err != nil {
		c.state = StateUnauthenticated
		return c.state, NormalizeSignUpError(err)
	}
	c.state = StateProvisional
	return c.runPostAuthGate(ctx)
}

// runPostAuthGate evaluates the OTP-required predicate against freshly
// fetched account fields and drives the next transition as a direct call.
// No further interaction is possible until it resolves.
// Caller must hold c.mu.
func (c *Controller) runPostAuthGate(ctx context.Context) (State, error) {
	account, err := c.backend.CurrentAccount(ctx)
	if err != nil {
		c.state = StateUnauthenticated
		return c.state, err
	}
	c.account = account

	if !account.OTPRequired() {
		c.state = StateVerified
		return c.state, nil
	}

	if err := c.backend.IssueOTP(ctx); err != nil {
		c.state = StateUnauthenticated
		return c.state, err
	}
	c.state = StateChallenged
	return c.state, nil
}

// SubmitCode verifies the entered code. On mismatch or expiry the
// challenge stays active so the user can retry or request a new code.
func (c *Controller) SubmitCode(ctx context.Context, code string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateChallenged {
		return c.state, accountmanagement.ErrUnauthenticated
	}
	if !isValidCodeFormat(code) {
		return c.state, accountmanagement.ErrInvalidOrExpiredCode
	}

	if err := c.backend.VerifyOTP(ctx, code); err != nil {
		if errors.Is(err, accountmanagement.ErrInvalidOrExpiredCode) {
			return c.state, err
		}
		c.state = StateUnauthenticated
		return c.state, err
	}

	account, err := c.backend.CurrentAccount(ctx)
	if err == nil {
		c.account = account
	}
	c.state = StateVerified
	return c.state, nil
}

// ResendCode requests a fresh challenge, invalidating the previous code.
func (c *Controller) ResendCode(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateChallenged {
		return accountmanagement.ErrUnauthenticated
	}
	return c.backend.IssueOTP(ctx)
}

// Abandon handles the user closing the code-entry dialog. Any abandoned
// challenge reverts the session, even when a prior cycle already
// verified the account. The outstanding code is left in place server
// side until it expires or is overwritten.
func (c *Controller) Abandon(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateChallenged && c.state != StateProvisional {
		return nil
	}
	return c.signOutLocked(ctx)
}

func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateUnauthenticated {
		return nil
	}
	return c.signOutLocked(ctx)
}

func (c *Controller) signOutLocked(ctx context.Context) error {
	err := c.backend.SignOut(ctx)
	c.state = StateUnauthenticated
	c.account = AccountSnapshot{}
	return err
}
