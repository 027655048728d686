package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithEnv(t *testing.T) {
	t.Setenv("FINBANK_DATABASE_DSN", "host=db user=bank")
	t.Setenv("PORT", "9090")
	t.Setenv("FINBANK_LEDGER_TX_TIMEOUT", "2s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.DSN != "host=db user=bank" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if cfg.Ledger.TxTimeout != 2*time.Second {
		t.Errorf("tx_timeout = %v, want 2s", cfg.Ledger.TxTimeout)
	}
	if cfg.Ledger.DefaultIBAN != "default" || cfg.Ledger.PeerLimit != 5 || cfg.Ledger.MaxRetries != 3 {
		t.Errorf("unexpected ledger defaults: %+v", cfg.Ledger)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 || cfg.Server.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("allowed origins = %v, want [*]", cfg.Server.CORS.AllowedOrigins)
	}
}

func TestLoadMongoURIFallback(t *testing.T) {
	t.Setenv("FINBANK_DATABASE_DRIVER", "mongo")
	t.Setenv("FINBANK_DATABASE_DSN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != DriverMongo {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "mongodb://localhost:27017/?replicaSet=rs0" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.Name != "bankapp" {
		t.Errorf("name = %q, want bankapp", cfg.Database.Name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "8081"
  cors:
    allowed_origins: ["http://a.test", "http://b.test"]
database:
  driver: sqlite
  dsn: "file:bank.db"
ledger:
  peer_limit: 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8081" || cfg.Database.Driver != DriverSQLite || cfg.Ledger.PeerLimit != 10 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if got := cfg.Server.CORS.AllowedOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Errorf("allowed origins = %v", got)
	}
	if !cfg.Database.IsGorm() {
		t.Error("sqlite should be served by gorm")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: "3000"},
			Database: DatabaseConfig{Driver: DriverPostgres, DSN: "x", Name: "bankapp"},
			Ledger:   LedgerConfig{DefaultIBAN: "default", TxTimeout: time.Second, MaxRetries: 3, PeerLimit: 5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "redis" }, true},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, true},
		{"mongo without name", func(c *Config) { c.Database.Driver = DriverMongo; c.Database.Name = "" }, true},
		{"zero timeout", func(c *Config) { c.Ledger.TxTimeout = 0 }, true},
		{"negative retries", func(c *Config) { c.Ledger.MaxRetries = -1 }, true},
		{"zero retries", func(c *Config) { c.Ledger.MaxRetries = 0 }, false},
		{"zero peer limit", func(c *Config) { c.Ledger.PeerLimit = 0 }, true},
		{"no default iban", func(c *Config) { c.Ledger.DefaultIBAN = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
