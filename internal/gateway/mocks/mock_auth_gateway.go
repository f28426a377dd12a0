package mocks

import (
	"context"

	"github.com/legacykeep/legacykeep-client/internal/gateway"
	"github.com/stretchr/testify/mock"
)

type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) GenerateOTP(ctx context.Context, req gateway.OTPRequest) (*gateway.OTPResponse, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*gateway.OTPResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthGateway) VerifyOTP(ctx context.Context, req gateway.VerifyOTPRequest) (*gateway.VerifyOTPResponse, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*gateway.VerifyOTPResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthGateway) ValidateUsername(ctx context.Context, username string) (*gateway.UsernameAvailability, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.(*gateway.UsernameAvailability), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthGateway) SubmitRegistration(ctx context.Context, req gateway.RegistrationRequest) (*gateway.RegistrationResponse, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*gateway.RegistrationResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthGateway) Login(ctx context.Context, req gateway.LoginRequest) (*gateway.TokenResponse, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*gateway.TokenResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthGateway) ResetPassword(ctx context.Context, req gateway.ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
