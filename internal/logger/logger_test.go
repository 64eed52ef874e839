package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"Warn", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Info("submitted %s", "ada@example.com")
	l.Warn("retrying %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "submitted")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "retrying 2")
}

func TestLogger_Configure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teacherhub.log")
	l := New()

	require.NoError(t, l.Configure("debug", path))
	l.Debug("step %d", 3)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "step 3")

	assert.Error(t, l.Configure("chatty", ""))
}
