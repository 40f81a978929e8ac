package etc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Check checks config values to fail fast in case of any problems
// that we might have due to invalid config.
func Check(config Config) (err error) {
	slog.Debug("Current process", slog.Int("pid", os.Getpid()))

	if config.Trivy.CacheDir == "" {
		return errors.New("trivy cache dir must not be blank")
	}

	if config.Trivy.ReportsDir == "" {
		return errors.New("trivy reports dir must not be blank")
	}

	if err = ensureDirExists(config.Trivy.CacheDir, "trivy cache dir"); err != nil {
		return
	}

	if err = ensureDirExists(config.Trivy.ReportsDir, "trivy reports dir"); err != nil {
		return
	}

	if config.Trivy.Timeout <= 0 {
		return errors.New("trivy timeout must be positive")
	}

	if config.Trivy.MaxConcurrentScans < 1 {
		return errors.New("max concurrent scans cannot be less than 1")
	}

	if config.API.IsTLSEnabled() {
		if !fileExists(config.API.TLSCertificate) {
			return fmt.Errorf("TLS certificate file does not exist: %s", config.API.TLSCertificate)
		}
		if !fileExists(config.API.TLSKey) {
			return fmt.Errorf("TLS private key file does not exist: %s", config.API.TLSKey)
		}
	}

	return
}

func ensureDirExists(path, description string) (err error) {
	if !dirExists(path) {
		slog.Debug("Creating dir", slog.String("path", path), slog.String("description", description))
		if err = os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", description, err)
		}
	}
	return
}

// dirExists checks if a dir exists before we
// try using it to prevent further errors.
func dirExists(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// fileExists checks if a file exists and is not a directory before we
// try using it to prevent further errors.
func fileExists(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
