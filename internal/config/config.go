// Package config loads process configuration from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendMySQL  Backend = "mysql"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
)

// Storage selects and configures the document store.
type Storage struct {
	Backend       Backend `env:"PANTRY_BACKEND" envDefault:"sqlite"`
	SQLitePath    string  `env:"PANTRY_SQLITE_PATH" envDefault:"data/pantry.db"`
	MySQLDSN      string  `env:"PANTRY_MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/pantry?parseTime=true"`
	RedisAddr     string  `env:"PANTRY_REDIS_ADDR" envDefault:"localhost:6379"`
	MongoURI      string  `env:"PANTRY_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string  `env:"PANTRY_MONGO_DATABASE" envDefault:"pantry"`
}

type Config struct {
	HTTPAddr      string        `env:"PANTRY_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string        `env:"PANTRY_GRPC_ADDR" envDefault:":50051"`
	Collection    string        `env:"PANTRY_COLLECTION" envDefault:"inventory"`
	AtomicUpdates bool          `env:"PANTRY_ATOMIC_UPDATES" envDefault:"false"`
	RemoteTimeout time.Duration `env:"PANTRY_REMOTE_TIMEOUT" envDefault:"5s"`
	Storage       Storage
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv reads the given .env files into the environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load parses .env, the environment, then the command-line flags.
func Load(flags *flag.FlagSet, args []string) (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	backend := string(cfg.Storage.Backend)
	flags.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	flags.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC listen address")
	flags.StringVar(&backend, "backend", backend, "document store: memory, sqlite, mysql, redis, mongo")
	flags.BoolVar(&cfg.AtomicUpdates, "atomic", cfg.AtomicUpdates, "use atomic quantity adjustments when the backend supports them")
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	cfg.Storage.Backend = Backend(backend)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendMySQL, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown backend %q", c.Storage.Backend)
	}
	if c.Collection == "" {
		return errors.New("collection name is required")
	}
	if c.RemoteTimeout <= 0 {
		return errors.New("remote timeout must be positive")
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
