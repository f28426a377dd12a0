package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeGateway plays the remote auth service with a gin router.
func newFakeGateway(t *testing.T, register func(r *gin.Engine)) AuthGateway {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	register(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewHTTPAuthGateway(srv.URL+"/", 2*time.Second)
}

func TestHTTPAuthGateway_GenerateOTP(t *testing.T) {
	var got OTPRequest
	var requestID string
	gw := newFakeGateway(t, func(r *gin.Engine) {
		r.POST("/api/v1/auth/otp/generate", func(c *gin.Context) {
			requestID = c.GetHeader("X-Request-ID")
			assert.NoError(t, c.ShouldBindJSON(&got))
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "sent", "expires_in": 300})
		})
	})

	resp, err := gw.GenerateOTP(context.Background(), OTPRequest{Identity: "jane@example.com", Channel: ChannelEmail, Purpose: PurposeRegistration})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 300, resp.ExpiresIn)
	assert.Equal(t, OTPRequest{Identity: "jane@example.com", Channel: ChannelEmail, Purpose: PurposeRegistration}, got)
	_, parseErr := uuid.Parse(requestID)
	assert.NoError(t, parseErr)
}

func TestHTTPAuthGateway_GenerateOTPConflict(t *testing.T) {
	gw := newFakeGateway(t, func(r *gin.Engine) {
		r.POST("/api/v1/auth/otp/generate", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"message": "account already exists"})
		})
	})

	resp, err := gw.GenerateOTP(context.Background(), OTPRequest{Identity: "taken@example.com"})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Equal(t, "account already exists", MessageOf(err, "fallback"))
}

func TestHTTPAuthGateway_VerifyOTPErrorUsesErrorKey(t *testing.T) {
	gw := newFakeGateway(t, func(r *gin.Engine) {
		r.POST("/api/v1/auth/otp/verify", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		})
	})

	_, err := gw.VerifyOTP(context.Background(), VerifyOTPRequest{Identity: "jane@example.com", Code: "000000"})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Equal(t, "Invalid or expired code", MessageOf(err, "fallback"))
	assert.False(t, IsConflict(err))
}

func TestHTTPAuthGateway_ValidateUsername(t *testing.T) {
	gw := newFakeGateway(t, func(r *gin.Engine) {
		r.GET("/api/v1/auth/username/available", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"available": c.Query("username") == "grandma_rose"})
		})
	})

	resp, err := gw.ValidateUsername(context.Background(), "grandma_rose")
	require.NoError(t, err)
	assert.True(t, resp.Available)

	resp, err = gw.ValidateUsername(context.Background(), "taken&x=1")
	require.NoError(t, err)
	assert.False(t, resp.Available)
}

func TestHTTPAuthGateway_SubmitRegistration(t *testing.T) {
	var got RegistrationRequest
	gw := newFakeGateway(t, func(r *gin.Engine) {
		r.POST("/api/v1/auth/register", func(c *gin.Context) {
			assert.NoError(t, c.ShouldBindJSON(&got))
			c.JSON(http.StatusCreated, gin.H{"success": true, "user_id": "u-1"})
		})
	})

	resp, err := gw.SubmitRegistration(context.Background(), RegistrationRequest{FirstName: "Rose", Email: "rose@example.com", AcceptTerms: true})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "u-1", resp.UserID)
	assert.Equal(t, "Rose", got.FirstName)
	assert.True(t, got.AcceptTerms)
}

func TestHTTPAuthGateway_ResetPasswordNoContent(t *testing.T) {
	gw := newFakeGateway(t, func(r *gin.Engine) {
		r.POST("/api/v1/auth/password/reset", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
	})

	assert.NoError(t, gw.ResetPassword(context.Background(), ResetPasswordRequest{Identity: "rose@example.com", ResetToken: "rt", NewPassword: "Passw0rd!"}))
}

func TestHTTPAuthGateway_NonJSONErrorBody(t *testing.T) {
	gw := newFakeGateway(t, func(r *gin.Engine) {
		r.POST("/api/v1/auth/login", func(c *gin.Context) {
			c.String(http.StatusBadGateway, "upstream down")
		})
	})

	_, err := gw.Login(context.Background(), LoginRequest{Identity: "rose", Password: "x"})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
	assert.Equal(t, "auth gateway returned status 502", err.Error())
}

func TestHTTPAuthGateway_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	gw := NewHTTPAuthGateway(srv.URL, time.Second)

	_, err := gw.GenerateOTP(context.Background(), OTPRequest{Identity: "rose@example.com"})

	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
}

func TestHTTPAuthGateway_Timeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/auth/otp/verify", func(c *gin.Context) {
		time.Sleep(300 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	gw := NewHTTPAuthGateway(srv.URL, 50*time.Millisecond)

	_, err := gw.VerifyOTP(context.Background(), VerifyOTPRequest{Code: "123456"})

	assert.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}
