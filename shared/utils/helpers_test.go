package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Buchara777/AI-Adventure/shared/models"
	"github.com/Buchara777/AI-Adventure/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"Bare object", `  {"story":"x"}  `, `{"story":"x"}`, true},
		{"Fenced object", "```json\n{\"story\":\"x\"}\n```", `{"story":"x"}`, true},
		{"Prose around object", `Sure! {"a":{"b":1}} hope this helps`, `{"a":{"b":1}}`, true},
		{"No braces", "I cannot help with that.", "", false},
		{"Closing before opening", "} nope {", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := utils.ExtractJSONObject(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCastToStringSlice(t *testing.T) {
	got := utils.CastToStringSlice([]interface{}{"a", 1, nil, "b", true})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestStringShort(t *testing.T) {
	assert.Equal(t, "short", utils.StringShort("short", 10))
	assert.Equal(t, "abcd...", utils.StringShort("abcdefghij", 7))
	assert.Equal(t, "...", utils.StringShort("abcdef", 2))
	assert.Equal(t, "тем...", utils.StringShort("темнота", 6))
}

func TestCheckInput(t *testing.T) {
	t.Run("Accepts ordinary text with safe control characters", func(t *testing.T) {
		assert.NoError(t, utils.CheckInput("action", "Open the door\n\tslowly\r\n", 0))
	})

	t.Run("Rejects oversize input", func(t *testing.T) {
		err := utils.CheckInput("action", strings.Repeat("a", 11), 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInput)
	})

	t.Run("Default limit applies when max is not set", func(t *testing.T) {
		assert.NoError(t, utils.CheckInput("action", strings.Repeat("a", utils.DefaultMaxInputBytes), 0))
		assert.ErrorIs(t, utils.CheckInput("action", strings.Repeat("a", utils.DefaultMaxInputBytes+1), 0), models.ErrInput)
	})

	t.Run("Rejects invalid UTF-8", func(t *testing.T) {
		err := utils.CheckInput("hint", "bad \xff byte", 100)
		assert.ErrorIs(t, err, models.ErrInput)
	})

	t.Run("Rejects escape sequences", func(t *testing.T) {
		err := utils.CheckInput("action", "red \x1b[31m text", 100)
		assert.ErrorIs(t, err, models.ErrInput)
		assert.Contains(t, err.Error(), "action")
	})
}

func TestReadSecret(t *testing.T) {
	t.Run("Environment variable wins", func(t *testing.T) {
		t.Setenv("TEST_SECRET_VALUE", "  from-env ")
		got, err := utils.ReadSecret("TEST_SECRET_VALUE", "missing_secret")
		require.NoError(t, err)
		assert.Equal(t, "from-env", got)
	})

	t.Run("Falls back to secret file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "api_key"), []byte("from-file\n"), 0o600))
		restore := utils.SetSecretsDirForTest(dir)
		defer restore()

		got, err := utils.ReadSecret("TEST_SECRET_UNSET", "api_key")
		require.NoError(t, err)
		assert.Equal(t, "from-file", got)
	})

	t.Run("Missing everywhere", func(t *testing.T) {
		restore := utils.SetSecretsDirForTest(t.TempDir())
		defer restore()

		_, err := utils.ReadSecret("TEST_SECRET_UNSET", "api_key")
		assert.Error(t, err)
	})
}
