package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPrefsCommands(t *testing.T) {
	t.Setenv("PREFERENCES_PATH", filepath.Join(t.TempDir(), "preferences.json"))
	t.Setenv("PREFERENCES_DSN", "")
	t.Setenv("LANG", "de_AT.UTF-8")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")

	out, err := runCLI(t, "", "prefs", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "theme: system (light)")
	assert.Contains(t, out, "language: en")

	_, err = runCLI(t, "", "prefs", "set", "theme", "dark")
	require.NoError(t, err)
	out, err = runCLI(t, "", "prefs", "set", "language", "auto")
	require.NoError(t, err)
	assert.Contains(t, out, "language set to de")

	out, err = runCLI(t, "", "prefs", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "theme: dark (dark)")
	assert.Contains(t, out, "language: de")

	_, err = runCLI(t, "", "prefs", "set", "theme", "sepia")
	assert.Error(t, err)
}

func TestLoginCommand(t *testing.T) {
	t.Setenv("PREFERENCES_DSN", "")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-77",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		var body struct {
			Identity string `json:"identity"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Password != "Passw0rd!" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "Bearer"})
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	out, err := runCLI(t, "rose@example.com\nPassw0rd!\n", "--gateway-url", srv.URL, "--timeout", "2s", "login")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as u-77.")
}

func TestSystemLocales(t *testing.T) {
	t.Setenv("LC_ALL", "C")
	t.Setenv("LC_MESSAGES", "pt_BR.UTF-8")
	t.Setenv("LANG", "en_US@euro")

	assert.Equal(t, []string{"pt-BR", "en-US"}, systemLocales())
}
