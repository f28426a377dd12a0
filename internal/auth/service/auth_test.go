package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/legacykeep/legacykeep-client/internal/auth/domain"
	"github.com/legacykeep/legacykeep-client/internal/gateway"
	"github.com/legacykeep/legacykeep-client/internal/gateway/mocks"
	regDomain "github.com/legacykeep/legacykeep-client/internal/registration/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionStore_StartSession(t *testing.T) {
	store := NewSessionStore(func() time.Time { return testNow })
	access := mintToken(t, jwt.MapClaims{
		"user_id": "u-42",
		"email":   "rose@example.com",
		"exp":     testNow.Add(72 * time.Hour).Unix(),
	})

	require.NoError(t, store.StartSession(access, "refresh"))

	s, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "u-42", s.UserID)
	assert.Equal(t, "rose@example.com", s.Email)
	assert.Equal(t, "refresh", s.RefreshToken)
	assert.Equal(t, testNow.Add(72*time.Hour).Unix(), s.ExpiresAt.Unix())

	store.Clear()
	_, err = store.Current()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_SubjectFallbackAndExpiry(t *testing.T) {
	now := testNow
	store := NewSessionStore(func() time.Time { return now })
	access := mintToken(t, jwt.MapClaims{"sub": "u-7", "exp": testNow.Add(time.Minute).Unix()})

	require.NoError(t, store.StartSession(access, ""))
	s, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "u-7", s.UserID)

	now = now.Add(2 * time.Minute)
	_, err = store.Current()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_RejectsMalformedTokens(t *testing.T) {
	store := NewSessionStore(nil)

	assert.ErrorIs(t, store.StartSession("not-a-jwt", ""), ErrMalformedToken)
	assert.ErrorIs(t, store.StartSession(mintToken(t, jwt.MapClaims{"email": "x@example.com"}), ""), ErrMalformedToken)
}

func TestLoginFlow_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful login starts a session", func(t *testing.T) {
		gw := new(mocks.MockAuthGateway)
		store := NewSessionStore(func() time.Time { return testNow })
		flow := NewLoginFlow(gw, store)
		access := mintToken(t, jwt.MapClaims{"user_id": "u-1", "exp": testNow.Add(time.Hour).Unix()})
		gw.On("Login", mock.Anything, gateway.LoginRequest{Identity: "grandma_rose", Password: "Passw0rd!"}).
			Return(&gateway.TokenResponse{AccessToken: access, RefreshToken: "rt"}, nil).Once()

		res := flow.Login(ctx, " grandma_rose ", "Passw0rd!")

		require.True(t, res.OK, res.Error)
		s, err := store.Current()
		require.NoError(t, err)
		assert.Equal(t, "u-1", s.UserID)
		assert.False(t, flow.Pending())
		gw.AssertExpectations(t)
	})

	t.Run("Wrong password", func(t *testing.T) {
		gw := new(mocks.MockAuthGateway)
		flow := NewLoginFlow(gw, NewSessionStore(nil))
		gw.On("Login", mock.Anything, mock.Anything).Return(nil, &gateway.Error{Status: 401, Message: "bad creds"}).Once()

		res := flow.Login(ctx, "rose@example.com", "nope")

		assert.Equal(t, regDomain.KindGateway, res.Kind)
		assert.Equal(t, domain.MsgInvalidCredentials, res.Error)
	})

	t.Run("Invalid identity never reaches the gateway", func(t *testing.T) {
		gw := new(mocks.MockAuthGateway)
		flow := NewLoginFlow(gw, NewSessionStore(nil))

		res := flow.Login(ctx, "a@", "")

		assert.Equal(t, regDomain.KindValidation, res.Kind)
		assert.Contains(t, res.FieldErrors, regDomain.FieldIdentity)
		assert.Contains(t, res.FieldErrors, regDomain.FieldPassword)
		gw.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("Malformed token from gateway", func(t *testing.T) {
		gw := new(mocks.MockAuthGateway)
		flow := NewLoginFlow(gw, NewSessionStore(nil))
		gw.On("Login", mock.Anything, mock.Anything).Return(&gateway.TokenResponse{AccessToken: "garbage"}, nil).Once()

		res := flow.Login(ctx, "rose@example.com", "Passw0rd!")

		assert.Equal(t, regDomain.KindUnexpected, res.Kind)
		assert.Equal(t, regDomain.MsgGenericFailure, res.Error)
	})
}

func TestPasswordResetFlow_HappyPath(t *testing.T) {
	gw := new(mocks.MockAuthGateway)
	flow := NewPasswordResetFlow(gw, -1, nil)
	t.Cleanup(flow.Close)
	ctx := context.Background()

	gw.On("GenerateOTP", mock.Anything, gateway.OTPRequest{
		Identity: "+14155551234", Channel: gateway.ChannelSMS, Purpose: gateway.PurposePasswordReset,
	}).Return(&gateway.OTPResponse{Success: true}, nil).Once()
	gw.On("VerifyOTP", mock.Anything, gateway.VerifyOTPRequest{
		Identity: "+14155551234", Code: "654321", Purpose: gateway.PurposePasswordReset,
	}).Return(&gateway.VerifyOTPResponse{Success: true, ResetToken: "reset-1"}, nil).Once()
	gw.On("ResetPassword", mock.Anything, gateway.ResetPasswordRequest{
		Identity: "+14155551234", ResetToken: "reset-1", NewPassword: "N3wPassword",
	}).Return(nil).Once()

	require.True(t, flow.RequestCode(ctx, "+1 415 555 1234").OK)
	assert.Equal(t, domain.ResetVerifyCode, flow.Stage())
	require.True(t, flow.VerifyCode(ctx, "654321").OK)
	assert.Equal(t, domain.ResetChoosePassword, flow.Stage())
	require.True(t, flow.ResetPassword(ctx, "N3wPassword", "N3wPassword").OK)
	assert.Equal(t, domain.ResetDone, flow.Stage())
	gw.AssertExpectations(t)
}

func TestPasswordResetFlow_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown account", func(t *testing.T) {
		gw := new(mocks.MockAuthGateway)
		flow := NewPasswordResetFlow(gw, -1, nil)
		gw.On("GenerateOTP", mock.Anything, mock.Anything).Return(nil, &gateway.Error{Status: 404}).Once()

		res := flow.RequestCode(ctx, "nobody@example.com")

		assert.Equal(t, domain.MsgNoAccount, res.Error)
		assert.Equal(t, domain.ResetRequestCode, flow.Stage())
	})

	t.Run("Steps out of order", func(t *testing.T) {
		flow := NewPasswordResetFlow(new(mocks.MockAuthGateway), -1, nil)

		assert.Equal(t, domain.MsgRequestCodeFirst, flow.VerifyCode(ctx, "123456").Error)
		assert.Equal(t, domain.MsgVerifyCodeFirst, flow.ResetPassword(ctx, "N3wPassword", "N3wPassword").Error)
		assert.Equal(t, regDomain.KindValidation, flow.ResetPassword(ctx, "short", "other").Kind)
	})

	t.Run("Expired reset token sends the user back", func(t *testing.T) {
		gw := new(mocks.MockAuthGateway)
		flow := NewPasswordResetFlow(gw, -1, nil)
		gw.On("GenerateOTP", mock.Anything, mock.Anything).Return(&gateway.OTPResponse{Success: true}, nil).Once()
		gw.On("VerifyOTP", mock.Anything, mock.Anything).Return(&gateway.VerifyOTPResponse{Success: true, ResetToken: "rt"}, nil).Once()
		gw.On("ResetPassword", mock.Anything, mock.Anything).Return(&gateway.Error{Status: 410}).Once()

		require.True(t, flow.RequestCode(ctx, "rose@example.com").OK)
		require.True(t, flow.VerifyCode(ctx, "123456").OK)
		res := flow.ResetPassword(ctx, "N3wPassword", "N3wPassword")

		assert.Equal(t, domain.MsgResetExpired, res.Error)
		assert.Equal(t, domain.ResetRequestCode, flow.Stage())
	})

	t.Run("Resend is blocked during cooldown", func(t *testing.T) {
		gw := new(mocks.MockAuthGateway)
		flow := NewPasswordResetFlow(gw, time.Minute, func() time.Time { return testNow })
		t.Cleanup(flow.Close)
		gw.On("GenerateOTP", mock.Anything, mock.Anything).Return(&gateway.OTPResponse{Success: true}, nil).Once()

		require.True(t, flow.RequestCode(ctx, "rose@example.com").OK)
		res := flow.Resend(ctx)

		assert.Equal(t, regDomain.KindCooldown, res.Kind)
		gw.AssertNumberOfCalls(t, "GenerateOTP", 1)
	})
}
