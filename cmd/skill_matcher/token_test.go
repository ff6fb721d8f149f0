package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-matcher/internal/config"
	"github.com/jonathan/skill-matcher/internal/server"
)

const testSecret = "test-secret-key-for-cli-tests"

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	out, err := runCLI(t, "token", "--subject", "alice")
	require.NoError(t, err)

	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	cfg, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(cfg).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestTokenCommand_Errors(t *testing.T) {
	t.Run("Missing --subject flag", func(t *testing.T) {
		t.Setenv("JWT_SECRET", testSecret)
		_, err := runCLI(t, "token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--subject is required")
	})

	t.Run("No secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := runCLI(t, "token", "-s", "alice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})
}
