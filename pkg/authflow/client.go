package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	accountmanagement "github.com/taskdeck/taskdeck-backend/pkg/account-management"
)

// APIBackend implements Backend against the HTTP API. It keeps the
// access token of the current session in memory.
type APIBackend struct {
	RootURL string

	mu          sync.Mutex
	accessToken string
	httpClient  *http.Client
}

func NewAPIBackend(rootURL string, timeout time.Duration) *APIBackend {
	return &APIBackend{
		RootURL:    rootURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode"`
}

type signInResponse struct {
	AccessToken string `json:"accessToken"`
	RenewToken  string `json:"renewToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

func (b *APIBackend) SignIn(ctx context.Context, email string, password string) error {
	var resp signInResponse
	err := b.call(ctx, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	b.setToken(resp.AccessToken)
	return nil
}

func (b *APIBackend) SignUp(ctx context.Context, email string, password string) error {
	var resp signInResponse
	err := b.call(ctx, http.MethodPost, "/v1/auth/signup", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	b.setToken(resp.AccessToken)
	return nil
}

func (b *APIBackend) CurrentAccount(ctx context.Context) (AccountSnapshot, error) {
	var resp struct {
		Account AccountSnapshot `json:"account"`
	}
	err := b.call(ctx, http.MethodGet, "/v1/accounts/me", nil, &resp)
	return resp.Account, err
}

func (b *APIBackend) IssueOTP(ctx context.Context) error {
	return b.call(ctx, http.MethodPost, "/v1/auth/otp", nil, nil)
}

func (b *APIBackend) VerifyOTP(ctx context.Context, code string) error {
	return b.call(ctx, http.MethodPost, "/v1/auth/otp/verify", map[string]string{
		"code": code,
	}, nil)
}

func (b *APIBackend) SignOut(ctx context.Context) error {
	err := b.call(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
	b.setToken("")
	return err
}

func (b *APIBackend) setToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessToken = token
}

func (b *APIBackend) token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accessToken
}

func (b *APIBackend) call(ctx context.Context, method string, pathname string, payload interface{}, target interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		json_data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(json_data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.RootURL+pathname, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := b.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return mapAPIError(resp.StatusCode, errResp)
	}

	if target != nil {
		return json.NewDecoder(resp.Body).Decode(target)
	}
	return nil
}

func mapAPIError(status int, errResp errorResponse) error {
	switch errResp.ErrorCode {
	case "ACCOUNT_EXISTS":
		return accountmanagement.ErrAccountExists
	case "WRONG_CREDENTIALS":
		return accountmanagement.ErrWrongCredentials
	case "INVALID_OR_EXPIRED_CODE":
		return accountmanagement.ErrInvalidOrExpiredCode
	case "ACCOUNT_NOT_FOUND":
		return accountmanagement.ErrAccountNotFound
	}

	if status == http.StatusUnauthorized {
		return accountmanagement.ErrUnauthenticated
	}
	if errResp.Error != "" {
		return errors.New(errResp.Error)
	}
	return fmt.Errorf("unexpected status code %d", status)
}
