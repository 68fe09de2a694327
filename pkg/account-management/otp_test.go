package accountmanagement

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck-backend/pkg/account-management/types"
)

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]types.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]types.Account{}}
}

func (s *fakeAccountStore) GetAccount(_ context.Context, accountID string) (types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return types.Account{}, errors.New("no documents in result")
	}
	return account, nil
}

func (s *fakeAccountStore) SetOTPChallenge(_ context.Context, accountID string, secret string, expiresAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return errors.New("no documents in result")
	}
	account.OtpSecret = secret
	account.OtpExpiresAt = expiresAt
	s.accounts[accountID] = account
	return nil
}

func (s *fakeAccountStore) ConsumeOTPChallenge(_ context.Context, accountID string, code string, now int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return false, nil
	}
	if account.OtpSecret == "" || account.OtpSecret != code || account.OtpExpiresAt < now {
		return false, nil
	}
	account.VerifiedAt = now
	account.OtpSecret = ""
	account.OtpExpiresAt = 0
	s.accounts[accountID] = account
	return true, nil
}

type sentCode struct {
	email string
	code  string
}

func setupOTPTest(t *testing.T) (*fakeAccountStore, chan sentCode) {
	t.Helper()
	store := newFakeAccountStore()
	sent := make(chan sentCode, 10)
	Init(store, func(email string, code string, preferredLang string, expiresAt int64) error {
		sent <- sentCode{email: email, code: code}
		return nil
	})
	return store, sent
}

func waitForSend(t *testing.T, sent chan sentCode) sentCode {
	t.Helper()
	select {
	case s := <-sent:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("expected a code dispatch")
		return sentCode{}
	}
}

func TestIssueOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("without resolved identity", func(t *testing.T) {
		setupOTPTest(t)
		if err := IssueOTP(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("with unknown account", func(t *testing.T) {
		setupOTPTest(t)
		if err := IssueOTP(ctx, "missing"); !errors.Is(err, ErrAccountNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("stores a 6 digit code with expiry and dispatches it", func(t *testing.T) {
		store, sent := setupOTPTest(t)
		store.accounts["u1"] = types.Account{Email: "a@b.com", OtpEnabled: true}

		before := time.Now().Add(OTPLifetime).UnixMilli()
		if err := IssueOTP(ctx, "u1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		after := time.Now().Add(OTPLifetime).UnixMilli()

		account, _ := store.GetAccount(ctx, "u1")
		if len(account.OtpSecret) != 6 {
			t.Fatalf("unexpected secret: %s", account.OtpSecret)
		}
		if n, err := strconv.Atoi(account.OtpSecret); err != nil || n < 100000 || n > 999999 {
			t.Fatalf("secret out of range: %s", account.OtpSecret)
		}
		if account.OtpExpiresAt < before || account.OtpExpiresAt > after {
			t.Errorf("unexpected expiry: %d", account.OtpExpiresAt)
		}

		dispatch := waitForSend(t, sent)
		if dispatch.email != "a@b.com" || dispatch.code != account.OtpSecret {
			t.Errorf("unexpected dispatch: %+v", dispatch)
		}
	})

	t.Run("second issue overwrites the first code", func(t *testing.T) {
		store, sent := setupOTPTest(t)
		store.accounts["u1"] = types.Account{Email: "a@b.com", OtpEnabled: true}

		if err := IssueOTP(ctx, "u1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first := waitForSend(t, sent).code

		if err := IssueOTP(ctx, "u1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second := waitForSend(t, sent).code

		if first == second {
			// the fake cannot collide here unless overwrite failed
			account, _ := store.GetAccount(ctx, "u1")
			if account.OtpSecret != second {
				t.Error("second issue should overwrite the stored secret")
			}
		}

		if err := VerifyOTP(ctx, "u1", first); first != second && !errors.Is(err, ErrInvalidOrExpiredCode) {
			t.Errorf("first code should be invalidated, got: %v", err)
		}
		if err := VerifyOTP(ctx, "u1", second); err != nil {
			t.Errorf("second code should verify, got: %v", err)
		}
	})
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("without resolved identity", func(t *testing.T) {
		setupOTPTest(t)
		if err := VerifyOTP(ctx, "", "123456"); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("with unknown account", func(t *testing.T) {
		setupOTPTest(t)
		if err := VerifyOTP(ctx, "missing", "123456"); !errors.Is(err, ErrAccountNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("correct code clears the challenge and sets verifiedAt", func(t *testing.T) {
		store, _ := setupOTPTest(t)
		store.accounts["u1"] = types.Account{
			Email:        "a@b.com",
			OtpSecret:    "123456",
			OtpExpiresAt: time.Now().Add(time.Minute).UnixMilli(),
		}

		if err := VerifyOTP(ctx, "u1", "123456"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		account, _ := store.GetAccount(ctx, "u1")
		if account.VerifiedAt == 0 {
			t.Error("verifiedAt should be set")
		}
		if account.OtpSecret != "" || account.OtpExpiresAt != 0 {
			t.Error("challenge fields should be cleared together")
		}

		// the consumed code must not verify a second time
		if err := VerifyOTP(ctx, "u1", "123456"); !errors.Is(err, ErrInvalidOrExpiredCode) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("expired code fails and leaves the account unchanged", func(t *testing.T) {
		store, _ := setupOTPTest(t)
		expiresAt := time.Now().Add(-time.Minute).UnixMilli()
		store.accounts["u1"] = types.Account{
			Email:        "a@b.com",
			OtpSecret:    "123456",
			OtpExpiresAt: expiresAt,
		}

		for i := 0; i < 3; i++ {
			if err := VerifyOTP(ctx, "u1", "123456"); !errors.Is(err, ErrInvalidOrExpiredCode) {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		account, _ := store.GetAccount(ctx, "u1")
		if account.OtpSecret != "123456" || account.OtpExpiresAt != expiresAt {
			t.Error("failed verification must not mutate the challenge")
		}
		if account.VerifiedAt != 0 {
			t.Error("verifiedAt must stay unset")
		}
	})

	t.Run("wrong code fails and keeps the stored code valid", func(t *testing.T) {
		store, _ := setupOTPTest(t)
		store.accounts["u1"] = types.Account{
			Email:        "a@b.com",
			OtpSecret:    "123456",
			OtpExpiresAt: time.Now().Add(time.Minute).UnixMilli(),
		}

		if err := VerifyOTP(ctx, "u1", "000000"); !errors.Is(err, ErrInvalidOrExpiredCode) {
			t.Fatalf("unexpected error: %v", err)
		}

		account, _ := store.GetAccount(ctx, "u1")
		if account.OtpSecret != "123456" {
			t.Error("stored code must remain untouched")
		}

		// the real code still works afterwards
		if err := VerifyOTP(ctx, "u1", "123456"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
