package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config is loaded once at startup and handed to constructors.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	// "*" allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Name         string `mapstructure:"name"` // mongo only
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	LogLevel     string `mapstructure:"log_level"` // silent | error | warn | info
}

type LedgerConfig struct {
	DefaultIBAN string        `mapstructure:"default_iban"`
	TxTimeout   time.Duration `mapstructure:"tx_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PeerLimit   int           `mapstructure:"peer_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.name", "bankapp")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("ledger.default_iban", "default")
	v.SetDefault("ledger.tx_timeout", 5*time.Second)
	v.SetDefault("ledger.max_retries", 3)
	v.SetDefault("ledger.peer_limit", 5)
}

// Load reads path (or configs/config.yaml, ./config.yaml when path is empty)
// and applies FINBANK_* environment overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FINBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// legacy variable names
	_ = v.BindEnv("server.port", "FINBANK_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.dsn", "FINBANK_DATABASE_DSN", "DATABASE_URL", "MONGODB_URI")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("config: database.dsn is required")
	}
	if c.Database.Driver == DriverMongo && c.Database.Name == "" {
		return errors.New("config: database.name is required for mongo")
	}
	if c.Server.Port == "" {
		return errors.New("config: server.port is required")
	}
	if c.Ledger.DefaultIBAN == "" {
		return errors.New("config: ledger.default_iban is required")
	}
	if c.Ledger.TxTimeout <= 0 {
		return errors.New("config: ledger.tx_timeout must be positive")
	}
	if c.Ledger.MaxRetries < 0 {
		return errors.New("config: ledger.max_retries must not be negative")
	}
	if c.Ledger.PeerLimit <= 0 {
		return errors.New("config: ledger.peer_limit must be positive")
	}
	return nil
}

// IsGorm reports whether the configured driver goes through gorm.
func (d DatabaseConfig) IsGorm() bool {
	return d.Driver == DriverPostgres || d.Driver == DriverSQLite
}
