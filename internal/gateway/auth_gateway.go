package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
)

// AuthGateway is the remote service that issues passcodes and owns accounts.
type AuthGateway interface {
	GenerateOTP(ctx context.Context, req OTPRequest) (*OTPResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyOTPResponse, error)
	ValidateUsername(ctx context.Context, username string) (*UsernameAvailability, error)
	SubmitRegistration(ctx context.Context, req RegistrationRequest) (*RegistrationResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

const (
	pathGenerateOTP   = "/api/v1/auth/otp/generate"
	pathVerifyOTP     = "/api/v1/auth/otp/verify"
	pathUsername      = "/api/v1/auth/username/available"
	pathRegister      = "/api/v1/auth/register"
	pathLogin         = "/api/v1/auth/login"
	pathPasswordReset = "/api/v1/auth/password/reset"

	headerRequestID = "X-Request-ID"
)

type httpAuthGateway struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPAuthGateway builds the REST client. Each call is attempted once;
// timeout bounds the whole exchange and the caller's context can cut it short.
func NewHTTPAuthGateway(baseURL string, timeout time.Duration) AuthGateway {
	return &httpAuthGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *httpAuthGateway) do(ctx context.Context, method, path string, payload, out interface{}) error {
	reqURL := c.BaseURL + path

	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", path, err)
		}
		body = bytes.NewBuffer(jsonPayload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("AuthGateway %s %s: request %s failed", err, method, path, requestID)
		return fmt.Errorf("failed to call auth gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp errorBody
		// A body that is not JSON still leaves us with the status code.
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		gwErr := &Error{Status: resp.StatusCode, Message: errResp.text()}
		logger.Warn("AuthGateway %s %s: request %s returned status %d", method, path, requestID, resp.StatusCode)
		return gwErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("AuthGateway %s %s: decode of request %s failed", err, method, path, requestID)
		return fmt.Errorf("failed to decode auth gateway %s response: %w", path, err)
	}
	return nil
}

func (c *httpAuthGateway) GenerateOTP(ctx context.Context, req OTPRequest) (*OTPResponse, error) {
	var out OTPResponse
	if err := c.do(ctx, http.MethodPost, pathGenerateOTP, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpAuthGateway) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyOTPResponse, error) {
	var out VerifyOTPResponse
	if err := c.do(ctx, http.MethodPost, pathVerifyOTP, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpAuthGateway) ValidateUsername(ctx context.Context, username string) (*UsernameAvailability, error) {
	var out UsernameAvailability
	path := pathUsername + "?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpAuthGateway) SubmitRegistration(ctx context.Context, req RegistrationRequest) (*RegistrationResponse, error) {
	var out RegistrationResponse
	if err := c.do(ctx, http.MethodPost, pathRegister, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpAuthGateway) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpAuthGateway) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, pathPasswordReset, req, nil)
}
