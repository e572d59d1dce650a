package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/conflict"
	"github.com/simao-eugenio/shypn-sub007/matrix"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 0.0, s.Dt)
	assert.Equal(t, 100, s.Steps)
	assert.Equal(t, "random", s.Policy)
	assert.Equal(t, "sparse", s.Storage)
	assert.Equal(t, "info", s.LogLevel)
	assert.NoError(t, s.Validate())
}

func TestLoadSettingsOverlaysDefaults(t *testing.T) {
	path := writeSettings(t, "seed: 7\npolicy: priority\n")
	s, err := LoadSettings(path)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, "priority", s.Policy)
	assert.Equal(t, 100, s.Steps)
	assert.Equal(t, "sparse", s.Storage)
	assert.Equal(t, conflict.Priority, s.PolicyKind())
	assert.Equal(t, matrix.Sparse, s.StorageKind())
}

func TestLoadSettingsRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		"dt: -1\n",
		"steps: -3\n",
		"policy: fancy\n",
		"storage: cloud\n",
		"log: chatty\n",
	} {
		_, err := LoadSettings(writeSettings(t, body))
		assert.ErrorIs(t, err, shypn.ErrInvalidParameter, "body %q", body)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
