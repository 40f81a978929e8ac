package trivy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"golang.org/x/xerrors"

	"github.com/vulnwatch/image-scanner-api/pkg/etc"
	"github.com/vulnwatch/image-scanner-api/pkg/ext"
)

const trivyExecutable = "trivy"

// Wrapper invokes the Trivy executable against a single image reference and returns its
// raw JSON output. Implementations must terminate the underlying process when the scan
// exceeds the configured timeout.
type Wrapper interface {
	Scan(ctx context.Context, imageRef string) ([]byte, error)
}

type wrapper struct {
	config     etc.Trivy
	ambassador ext.Ambassador
}

func NewWrapper(config etc.Trivy, ambassador ext.Ambassador) Wrapper {
	return &wrapper{
		config:     config,
		ambassador: ambassador,
	}
}

func (w *wrapper) Scan(ctx context.Context, imageRef string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	executable, err := w.ambassador.LookPath(trivyExecutable)
	if err != nil {
		return nil, xerrors.Errorf("looking up trivy executable: %w", err)
	}

	reportFile, err := w.ambassador.TempFile(w.config.ReportsDir, "scan_report_*.json")
	if err != nil {
		return nil, xerrors.Errorf("creating scan report file: %w", err)
	}
	defer func() {
		if err := reportFile.Close(); err != nil {
			slog.Warn("Error while closing scan report file", slog.String("err", err.Error()))
		}
		slog.Debug("Removing scan report file", slog.String("path", reportFile.Name()))
		if err := os.Remove(reportFile.Name()); err != nil {
			slog.Warn("Error while removing scan report file", slog.String("err", err.Error()))
		}
	}()

	cmd := w.prepareScanCmd(ctx, executable, imageRef, reportFile.Name())

	slog.Debug("Started scanning", slog.String("image_ref", imageRef),
		slog.String("report_file", reportFile.Name()))

	output, err := w.ambassador.RunCmd(cmd)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Warn("Scan timed out", slog.String("image_ref", imageRef),
				slog.Duration("timeout", w.config.Timeout))
			return nil, &TimeoutError{Timeout: w.config.Timeout}
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		slog.Error("Scan failed", slog.String("image_ref", imageRef),
			slog.Int("exit_code", exitCode), slog.String("output", string(output)))
		return nil, &EngineError{ExitCode: exitCode, Output: string(output)}
	}

	slog.Debug("Finished scanning", slog.String("image_ref", imageRef))

	raw, err := io.ReadAll(reportFile)
	if err != nil {
		return nil, xerrors.Errorf("reading scan report file: %w", err)
	}

	return raw, nil
}

func (w *wrapper) prepareScanCmd(ctx context.Context, executable, imageRef, reportPath string) *exec.Cmd {
	args := []string{
		"image",
		"--no-progress",
		"--cache-dir", w.config.CacheDir,
		"--format", "json",
		"--output", reportPath,
	}

	if w.config.VulnType != "" {
		args = append(args, "--vuln-type", w.config.VulnType)
	}
	if w.config.Severity != "" {
		args = append(args, "--severity", w.config.Severity)
	}
	if w.config.IgnoreUnfixed {
		args = append(args, "--ignore-unfixed")
	}
	if w.config.SkipDBUpdate {
		args = append(args, "--skip-db-update")
	}
	if w.config.DebugMode {
		args = append(args, "--debug")
	}

	args = append(args, imageRef)

	cmd := exec.CommandContext(ctx, executable, args...)

	cmd.Env = w.ambassador.Environ()
	if w.config.Insecure {
		cmd.Env = append(cmd.Env, "TRIVY_INSECURE=true")
	}
	if w.config.RegistryUsername != "" && w.config.RegistryPassword != "" {
		cmd.Env = append(cmd.Env,
			fmt.Sprintf("TRIVY_USERNAME=%s", w.config.RegistryUsername),
			fmt.Sprintf("TRIVY_PASSWORD=%s", w.config.RegistryPassword))
	}

	return cmd
}
