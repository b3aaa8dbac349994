package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`

	// CORSOrigins lists browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

// ImportConfig controls CSV uploads.
type ImportConfig struct {
	// DuplicatePolicy is "reject" (skip rows whose fingerprint already exists) or "allow".
	DuplicatePolicy string `mapstructure:"duplicate_policy"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
}

type DashboardConfig struct {
	// BalancePolicy is "month" or "carry_forward".
	BalancePolicy      string `mapstructure:"balance_policy"`
	SalesAuthoritative bool   `mapstructure:"sales_authoritative"`
}

type TaxonomyConfig struct {
	Path string `mapstructure:"path"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Import    ImportConfig    `mapstructure:"import"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Taxonomy  TaxonomyConfig  `mapstructure:"taxonomy"`
	Export    ExportConfig    `mapstructure:"export"`
}

var (
	appConfig *Config
	once      sync.Once
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("database.path", "./data/account.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("import.duplicate_policy", "reject")
	v.SetDefault("import.max_upload_mb", 10)
	v.SetDefault("dashboard.balance_policy", "month")
	v.SetDefault("dashboard.sales_authoritative", true)
	v.SetDefault("export.dir", "./exports")
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it looks for "config.yaml" in the working directory and
// falls back to defaults when none exists. A ".env" file is read first so its
// values can override through the environment.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		appConfig, err = read(path)
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func read(path string) (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. ERP_SERVER_PORT=9000
	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the loaded values and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port %d: must be between 1 and 65535", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database path cannot be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.Import.DuplicatePolicy)) {
	case "reject", "allow":
	default:
		problems = append(problems, fmt.Sprintf("invalid import duplicate policy '%s': must be 'reject' or 'allow'", c.Import.DuplicatePolicy))
	}
	if c.Import.MaxUploadMB < 1 {
		problems = append(problems, fmt.Sprintf("invalid max upload size %d MB: must be at least 1", c.Import.MaxUploadMB))
	}
	switch strings.ToLower(strings.TrimSpace(c.Dashboard.BalancePolicy)) {
	case "month", "carry_forward", "register_cash":
	default:
		problems = append(problems, fmt.Sprintf("invalid balance policy '%s': must be 'month', 'carry_forward' or 'register_cash'", c.Dashboard.BalancePolicy))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
