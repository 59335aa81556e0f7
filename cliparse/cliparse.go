package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/body-perception/category"
	"github.com/danielhkuo/body-perception/scoring"
	"github.com/danielhkuo/body-perception/stats"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres" // lib/pq
	DatabasePgx      = "pgx"      // jackc/pgx stdlib
)

const (
	defaultPort          = 3318
	defaultSQLiteURL     = "file:perception.db?_pragma=busy_timeout(5000)"
	defaultSubmissionTTL = 365 * 24 * time.Hour
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	EnvFile      string
	LogLevel     string

	ImageCount     int
	ScoreStrategy  string
	CategoryTable  string
	VarianceMethod string

	IngestMaxRetries int
	SubmissionTTL    time.Duration
	CORSOrigins      []string
	IPHashSalt       string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins string
	var ttl string

	fs := flag.NewFlagSet("body-perception", flag.ContinueOnError)

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "Load environment from file")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Assessment
	fs.IntVar(&cfg.ImageCount, "n", 0, "Images per session")
	fs.StringVar(&cfg.ScoreStrategy, "strategy", "", "Score strategy (weighted or unweighted)")
	fs.StringVar(&cfg.CategoryTable, "categories", "", "Category table (server or fallback)")
	fs.StringVar(&cfg.VarianceMethod, "variance", "", "Variance method (legacy or welford)")

	// Statistics and retention
	fs.IntVar(&cfg.IngestMaxRetries, "retries", -1, "Max retries for aggregate updates")
	fs.StringVar(&ttl, "ttl", "", "Submission retention (e.g. 8760h)")
	fs.StringVar(&origins, "cors", "", "Comma-separated allowed origins")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.EnvFile == "" {
		cfg.EnvFile = os.Getenv("ENV_FILE")
	}
	if cfg.EnvFile != "" {
		// Existing environment variables win over the file
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", defaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envString("DATABASE_TYPE", DatabaseSQLite)
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabasePgx:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != DatabaseSQLite {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = defaultSQLiteURL
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = envString("LOG_LEVEL", "info")
	}

	if cfg.ImageCount == 0 {
		n, err := envInt("IMAGE_COUNT", scoring.DefaultImageCount)
		if err != nil {
			return Config{}, err
		}
		cfg.ImageCount = n
	}
	if cfg.ImageCount < 2 {
		return Config{}, errors.New("IMAGE_COUNT must be at least 2")
	}

	if cfg.ScoreStrategy == "" {
		cfg.ScoreStrategy = envString("SCORE_STRATEGY", "weighted")
	}
	if _, err := scoring.StrategyByName(cfg.ScoreStrategy); err != nil {
		return Config{}, err
	}

	if cfg.CategoryTable == "" {
		cfg.CategoryTable = envString("CATEGORY_TABLE", category.NameServer)
	}
	if _, err := category.ByName(cfg.CategoryTable); err != nil {
		return Config{}, err
	}

	if cfg.VarianceMethod == "" {
		cfg.VarianceMethod = envString("VARIANCE_METHOD", string(stats.VarianceLegacy))
	}
	if _, err := stats.ParseVarianceMethod(cfg.VarianceMethod); err != nil {
		return Config{}, err
	}

	if cfg.IngestMaxRetries < 0 {
		n, err := envInt("INGEST_MAX_RETRIES", stats.DefaultMaxRetries)
		if err != nil {
			return Config{}, err
		}
		cfg.IngestMaxRetries = n
	}

	if ttl == "" {
		ttl = os.Getenv("SUBMISSION_TTL")
	}
	cfg.SubmissionTTL = defaultSubmissionTTL
	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid SUBMISSION_TTL")
		}
		cfg.SubmissionTTL = d
	}

	if origins == "" {
		origins = envString("CORS_ORIGINS", "*")
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	// Optional - without a salt client IPs are not stored at all
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
