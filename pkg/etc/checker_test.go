package etc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Trivy: Trivy{
			CacheDir:           t.TempDir(),
			ReportsDir:         t.TempDir(),
			Timeout:            5 * time.Minute,
			MaxConcurrentScans: 1,
		},
	}
}

func TestCheck(t *testing.T) {
	t.Run("Should pass for valid config", func(t *testing.T) {
		assert.NoError(t, Check(validConfig(t)))
	})

	t.Run("Should create missing cache and reports dirs", func(t *testing.T) {
		config := validConfig(t)
		config.Trivy.CacheDir = filepath.Join(t.TempDir(), "cache", "trivy")
		config.Trivy.ReportsDir = filepath.Join(t.TempDir(), "cache", "reports")

		require.NoError(t, Check(config))

		assert.DirExists(t, config.Trivy.CacheDir)
		assert.DirExists(t, config.Trivy.ReportsDir)
	})

	t.Run("Should return error when cache dir is blank", func(t *testing.T) {
		config := validConfig(t)
		config.Trivy.CacheDir = ""
		assert.EqualError(t, Check(config), "trivy cache dir must not be blank")
	})

	t.Run("Should return error when reports dir is blank", func(t *testing.T) {
		config := validConfig(t)
		config.Trivy.ReportsDir = ""
		assert.EqualError(t, Check(config), "trivy reports dir must not be blank")
	})

	t.Run("Should return error when timeout is not positive", func(t *testing.T) {
		config := validConfig(t)
		config.Trivy.Timeout = 0
		assert.EqualError(t, Check(config), "trivy timeout must be positive")
	})

	t.Run("Should return error when max concurrent scans is less than 1", func(t *testing.T) {
		config := validConfig(t)
		config.Trivy.MaxConcurrentScans = 0
		assert.EqualError(t, Check(config), "max concurrent scans cannot be less than 1")
	})

	t.Run("Should return error when TLS certificate does not exist", func(t *testing.T) {
		config := validConfig(t)
		config.API.TLSCertificate = "/no/such/tls.crt"
		config.API.TLSKey = writeTempFile(t, "tls.key")

		assert.EqualError(t, Check(config), "TLS certificate file does not exist: /no/such/tls.crt")
	})

	t.Run("Should treat unstatable TLS paths as missing", func(t *testing.T) {
		// A path nested under a regular file makes os.Stat fail with an error
		// that is not ErrNotExist.
		config := validConfig(t)
		config.API.TLSCertificate = filepath.Join(writeTempFile(t, "blocker"), "tls.crt")
		config.API.TLSKey = writeTempFile(t, "tls.key")

		assert.EqualError(t, Check(config),
			"TLS certificate file does not exist: "+config.API.TLSCertificate)
	})

	t.Run("Should return error when TLS key does not exist", func(t *testing.T) {
		config := validConfig(t)
		config.API.TLSCertificate = writeTempFile(t, "tls.crt")
		config.API.TLSKey = "/no/such/tls.key"

		assert.EqualError(t, Check(config), "TLS private key file does not exist: /no/such/tls.key")
	})
}

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("test"), 0600))
	return path
}
