package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("sign in",
		"email", "ada@example.com",
		"password", "hunter22",
		"access_token", "abc",
		"user", "u1",
		"attrs", map[string]string{"username": "ada", "refresh_token": "r"},
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, redacted, fields["email"])
	assert.Equal(t, redacted, fields["password"])
	assert.Equal(t, redacted, fields["access_token"])
	assert.Equal(t, "u1", fields["user"])

	attrs, ok := fields["attrs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada", attrs["username"])
	assert.Equal(t, redacted, attrs["refresh_token"])
}

func TestTokenCountsAreNotRedacted(t *testing.T) {
	got := sanitizeKVs([]any{"input_tokens", 12, "id_token", "x"})
	assert.Equal(t, []any{"input_tokens", 12, "id_token", redacted}, got)
}

func TestRedactsJWTLookingValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("header", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1MSJ9abc.sig")

	l.Debug("request")
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, redacted, fields["header"])
}

func TestOddKeyValueCountKeepsTrailingKey(t *testing.T) {
	got := sanitizeKVs([]any{"a", 1, "dangling"})
	assert.Equal(t, []any{"a", 1, "dangling"}, got)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "promptquest.log")
	l, err := New(path, "info")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Warn("shown", "lesson", "l1")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"lesson":"l1"`)
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
}
