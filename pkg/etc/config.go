package etc

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// BuildInfo contains application build information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type Config struct {
	API        API
	Trivy      Trivy
	RedisStore RedisStore
	RedisPool  RedisPool
	Metrics    Metrics
}

type API struct {
	Addr           string        `env:"SCANNER_API_SERVER_ADDR" envDefault:":8080"`
	TLSCertificate string        `env:"SCANNER_API_SERVER_TLS_CERTIFICATE"`
	TLSKey         string        `env:"SCANNER_API_SERVER_TLS_KEY"`
	ClientCAs      []string      `env:"SCANNER_API_SERVER_CLIENT_CAS"`
	ReadTimeout    time.Duration `env:"SCANNER_API_SERVER_READ_TIMEOUT" envDefault:"15s"`
	// Scan requests block until Trivy exits, so the write timeout must
	// exceed Trivy.Timeout.
	WriteTimeout time.Duration `env:"SCANNER_API_SERVER_WRITE_TIMEOUT" envDefault:"6m"`
	IdleTimeout  time.Duration `env:"SCANNER_API_SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

func (c API) IsTLSEnabled() bool {
	return c.TLSCertificate != "" && c.TLSKey != ""
}

type Trivy struct {
	CacheDir           string        `env:"SCANNER_TRIVY_CACHE_DIR" envDefault:"/home/scanner/.cache/trivy"`
	ReportsDir         string        `env:"SCANNER_TRIVY_REPORTS_DIR" envDefault:"/home/scanner/.cache/reports"`
	DebugMode          bool          `env:"SCANNER_TRIVY_DEBUG_MODE" envDefault:"false"`
	VulnType           string        `env:"SCANNER_TRIVY_VULN_TYPE" envDefault:"os,library"`
	Severity           string        `env:"SCANNER_TRIVY_SEVERITY"`
	IgnoreUnfixed      bool          `env:"SCANNER_TRIVY_IGNORE_UNFIXED" envDefault:"false"`
	SkipDBUpdate       bool          `env:"SCANNER_TRIVY_SKIP_DB_UPDATE" envDefault:"false"`
	Insecure           bool          `env:"SCANNER_TRIVY_INSECURE" envDefault:"false"`
	Timeout            time.Duration `env:"SCANNER_TRIVY_TIMEOUT" envDefault:"5m0s"`
	MaxConcurrentScans int64         `env:"SCANNER_TRIVY_MAX_CONCURRENT_SCANS" envDefault:"1"`

	// Optional credentials passed through to Trivy for private registries.
	RegistryUsername string `env:"SCANNER_TRIVY_REGISTRY_USERNAME"`
	RegistryPassword string `env:"SCANNER_TRIVY_REGISTRY_PASSWORD"`
}

type RedisStore struct {
	Namespace string `env:"SCANNER_STORE_REDIS_NAMESPACE" envDefault:"scanner.store"`
}

type RedisPool struct {
	URL               string        `env:"SCANNER_REDIS_URL" envDefault:"redis://localhost:6379"`
	MaxActive         int           `env:"SCANNER_REDIS_POOL_MAX_ACTIVE" envDefault:"5"`
	MaxIdle           int           `env:"SCANNER_REDIS_POOL_MAX_IDLE" envDefault:"5"`
	IdleTimeout       time.Duration `env:"SCANNER_REDIS_POOL_IDLE_TIMEOUT" envDefault:"5m"`
	ConnectionTimeout time.Duration `env:"SCANNER_REDIS_POOL_CONNECTION_TIMEOUT" envDefault:"1s"`
	ReadTimeout       time.Duration `env:"SCANNER_REDIS_POOL_READ_TIMEOUT" envDefault:"1s"`
	WriteTimeout      time.Duration `env:"SCANNER_REDIS_POOL_WRITE_TIMEOUT" envDefault:"1s"`
}

type Metrics struct {
	Enabled  bool   `env:"SCANNER_METRICS_ENABLED" envDefault:"true"`
	Addr     string `env:"SCANNER_METRICS_ADDR" envDefault:":8081"`
	Endpoint string `env:"SCANNER_METRICS_ENDPOINT" envDefault:"/metrics"`
}

func GetConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

func GetLogLevel() slog.Level {
	switch strings.ToLower(os.Getenv("SCANNER_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
