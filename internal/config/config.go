package config

import (
	"flag"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Stub server settings
	DatabaseDSN   string `env:"DATABASE_URI"`
	AuthSecret    string `env:"AUTH_SECRET"`
	HandlePrefix  string `env:"HANDLE_PREFIX"`
	SeedEmail     string `env:"SEED_EMAIL"`
	SeedPassword  string `env:"SEED_PASSWORD"`
	SeedFullName  string `env:"SEED_FULLNAME"`
	BlobMaxSizeMB int    `env:"BLOB_MAX_MB"`
	TLSCertFile   string `env:"TLS_CERT_FILE"`
	TLSKeyFile    string `env:"TLS_KEY_FILE"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	LogLevel    string `env:"LOG_LEVEL"`

	// Client-side settings
	ServerURL          string        `env:"-"`
	DSpaceURL          string        `env:"DSPACE_URL"`
	Email              string        `env:"DSPACE_EMAIL"`
	Password           string        `env:"DSPACE_PASSWORD"`
	HTTPTimeout        time.Duration `env:"HTTP_TIMEOUT"`
	InsecureSkipVerify bool          `env:"INSECURE_SKIP_VERIFY"`
	ClientDBPath       string        `env:"CLIENT_DB_PATH"`
	ReportDir          string        `env:"REPORT_DIR"`
	Version            bool          `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres URL или путь к SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.HandlePrefix, "handle-prefix", cfg.HandlePrefix, "handle prefix minted by the stub server")
	flag.IntVar(&cfg.BlobMaxSizeMB, "blob-max-mb", cfg.BlobMaxSizeMB, "max bitstream size accepted by the stub server, MB")
	flag.StringVar(&cfg.TLSCertFile, "tls-cert", cfg.TLSCertFile, "TLS certificate file (with -https)")
	flag.StringVar(&cfg.TLSKeyFile, "tls-key", cfg.TLSKeyFile, "TLS key file (with -https)")
	// Shared flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the stub server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	// Client flags
	flag.StringVar(&cfg.DSpaceURL, "url", cfg.DSpaceURL, "DSpace REST API URL, e.g. https://dspace.example.edu/rest")
	flag.StringVar(&cfg.Email, "email", cfg.Email, "DSpace account email")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP request timeout")
	flag.BoolVar(&cfg.InsecureSkipVerify, "insecure", cfg.InsecureSkipVerify, "skip TLS certificate verification")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to the ingest ledger SQLite DB")
	flag.StringVar(&cfg.ReportDir, "report-dir", cfg.ReportDir, "directory for generated reports")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.HandlePrefix == "" {
		cfg.HandlePrefix = "123456789"
	}
	if cfg.BlobMaxSizeMB <= 0 {
		cfg.BlobMaxSizeMB = 50
	}
	if cfg.SeedFullName == "" {
		cfg.SeedFullName = "DSpace Administrator"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "."
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	// без DSPACE_URL клиент работает с локальным стабом
	if cfg.DSpaceURL == "" {
		cfg.DSpaceURL = cfg.ServerURL + "/rest"
	}
	cfg.DSpaceURL = strings.TrimRight(cfg.DSpaceURL, "/")
}
