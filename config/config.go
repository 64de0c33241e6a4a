package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dbconsole/logger"
	"dbconsole/models"

	"github.com/spf13/viper"
)

type DefaultPaths struct {
	ConfigDir     string
	LogPathApp    string
	LogPathAccess string
	DBPath        string
	LogLevel      string
}

// ReferenceQuery is the SQL behind one table of the reference backend.
type ReferenceQuery struct {
	SQL      string `mapstructure:"sql"`
	CountSQL string `mapstructure:"count_sql"`
}

type Configuration struct {
	Backend struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		HeaderPath     string `mapstructure:"header_path"`
		RowsPath       string `mapstructure:"rows_path"`
		TotalPath      string `mapstructure:"total_path"`
	} `mapstructure:"backend"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		Port          string `mapstructure:"port"`
		LogPath       string `mapstructure:"log_path"`
		AccessLogPath string `mapstructure:"access_log_path"`
	} `mapstructure:"server"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
	Grid struct {
		DefaultPageSize    int `mapstructure:"default_page_size"`
		DefaultColumnWidth int `mapstructure:"default_column_width"`
	} `mapstructure:"grid"`
	Tables    map[string]models.TableSpec `mapstructure:"tables"`
	Reference struct {
		Driver  string                    `mapstructure:"driver"`
		DSN     string                    `mapstructure:"dsn"`
		Port    string                    `mapstructure:"port"`
		Queries map[string]ReferenceQuery `mapstructure:"queries"`
	} `mapstructure:"reference"`
}

var AppConfig Configuration

// defaultTables is the catalog of the dashboard's list pages.
var defaultTables = map[string]map[string]any{
	"node_status": {
		"title":    "Node Status",
		"endpoint": "/api/v1/tables/node_status",
		"method":   "GET",
	},
	"slow_queries": {
		"title":          "Slow Queries",
		"endpoint":       "/api/v1/tables/slow_queries",
		"count_endpoint": "/api/v1/tables/slow_queries/count",
		"method":         "GET",
		"key_field":      "sql_id",
	},
	"index_advice": {
		"title":    "Index Advice",
		"endpoint": "/api/v1/tables/index_advice",
		"method":   "GET",
	},
	"security_risks": {
		"title":     "Security Risks",
		"endpoint":  "/api/v1/tables/security_risks",
		"method":    "GET",
		"key_field": "risk_id",
	},
	"settings": {
		"title":     "Settings",
		"endpoint":  "/api/v1/tables/settings",
		"method":    "GET",
		"key_field": "name",
	},
}

// defaultReferenceQueries target the sqlite dev schema created by the reference command.
var defaultReferenceQueries = map[string]map[string]any{
	"node_status": {
		"sql":       "SELECT node, role, status, uptime_seconds FROM node_status ORDER BY node LIMIT ? OFFSET ?",
		"count_sql": "SELECT COUNT(*) FROM node_status",
	},
	"slow_queries": {
		"sql":       "SELECT sql_id, db_name, exec_count, avg_latency_ms, sample_sql FROM slow_queries ORDER BY avg_latency_ms DESC LIMIT ? OFFSET ?",
		"count_sql": "SELECT COUNT(*) FROM slow_queries",
	},
	"index_advice": {
		"sql":       "SELECT table_name, index_columns, benefit FROM index_advice ORDER BY benefit DESC LIMIT ? OFFSET ?",
		"count_sql": "SELECT COUNT(*) FROM index_advice",
	},
	"security_risks": {
		"sql":       "SELECT risk_id, level, description FROM security_risks ORDER BY risk_id LIMIT ? OFFSET ?",
		"count_sql": "SELECT COUNT(*) FROM security_risks",
	},
	"settings": {
		"sql":       "SELECT name, value, description FROM settings ORDER BY name LIMIT ? OFFSET ?",
		"count_sql": "SELECT COUNT(*) FROM settings",
	},
}

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ExpandTilde is exported for flag values handled outside this package.
func ExpandTilde(path string) (string, error) {
	return expandTilde(path)
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDir = "."
	}

	paths.ConfigDir = filepath.Join(userConfigDir, "dbconsole")
	logDir := filepath.Join(paths.ConfigDir, "logs")
	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathAccess = filepath.Join(logDir, "access.log")
	paths.DBPath = filepath.Join(paths.ConfigDir, "dbconsole.db")
	paths.LogLevel = "INFO"
	return paths
}

func setDefaults(v *viper.Viper, defaults DefaultPaths) {
	v.SetDefault("backend.base_url", "http://127.0.0.1:8780")
	v.SetDefault("backend.timeout_seconds", 15)
	v.SetDefault("backend.header_path", "header")
	v.SetDefault("backend.rows_path", "rows")
	v.SetDefault("backend.total_path", "total")
	v.SetDefault("database.path", defaults.DBPath)
	v.SetDefault("server.port", "8779")
	v.SetDefault("server.log_path", defaults.LogPathApp)
	v.SetDefault("server.access_log_path", defaults.LogPathAccess)
	v.SetDefault("logging.level", defaults.LogLevel)
	v.SetDefault("grid.default_page_size", 10)
	v.SetDefault("grid.default_column_width", 150)
	v.SetDefault("tables", defaultTables)
	v.SetDefault("reference.driver", "sqlite3")
	v.SetDefault("reference.dsn", filepath.Join(defaults.ConfigDir, "reference.db"))
	v.SetDefault("reference.port", "8780")
	v.SetDefault("reference.queries", defaultReferenceQueries)
}

// Load reads configuration into a fresh Configuration without touching AppConfig
// or the loggers.
func Load(cfgFile string) (Configuration, string, error) {
	var cfg Configuration
	v := viper.New()
	defaults := GetDefaultConfigPaths()
	setDefaults(v, defaults)

	if cfgFile != "" {
		expandedCfgFile, err := expandTilde(cfgFile)
		if err != nil {
			expandedCfgFile = cfgFile
		}
		v.SetConfigFile(expandedCfgFile)
		v.SetConfigType("yaml")
	} else {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "dbconsole"))
		}
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DBCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configUsedMsg := "Using default/environment configuration."
	if err := v.ReadInConfig(); err == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return cfg, "", fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	for name, spec := range cfg.Tables {
		spec.Name = name
		if spec.Method == "" {
			spec.Method = "GET"
		}
		if spec.Title == "" {
			spec.Title = name
		}
		cfg.Tables[name] = spec
	}
	if cfg.Grid.DefaultPageSize <= 0 {
		cfg.Grid.DefaultPageSize = 10
	}
	if cfg.Grid.DefaultColumnWidth <= 0 {
		cfg.Grid.DefaultColumnWidth = 150
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 15
	}

	var err error
	if cfg.Database.Path, err = expandTilde(cfg.Database.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in database.path '%s': %v.\n", cfg.Database.Path, err)
	}
	if cfg.Server.LogPath, err = expandTilde(cfg.Server.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in server.log_path '%s': %v.\n", cfg.Server.LogPath, err)
	}
	if cfg.Server.AccessLogPath, err = expandTilde(cfg.Server.AccessLogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in server.access_log_path '%s': %v.\n", cfg.Server.AccessLogPath, err)
	}
	return cfg, configUsedMsg, nil
}

// Init loads the configuration into AppConfig, applies flag overrides and
// (re)initializes the global loggers.
func Init(cfgFile string, flagAppLogPath, flagAccessLogPath, flagLogLevel string) error {
	cfg, configUsedMsg, err := Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		return err
	}
	AppConfig = cfg

	if flagAppLogPath != "" {
		if expanded, err := expandTilde(flagAppLogPath); err == nil {
			AppConfig.Server.LogPath = expanded
		} else {
			AppConfig.Server.LogPath = flagAppLogPath
		}
	}
	if flagAccessLogPath != "" {
		if expanded, err := expandTilde(flagAccessLogPath); err == nil {
			AppConfig.Server.AccessLogPath = expanded
		} else {
			AppConfig.Server.AccessLogPath = flagAccessLogPath
		}
	}
	if flagLogLevel != "" {
		AppConfig.Logging.Level = strings.ToUpper(flagLogLevel)
	}

	if err := logger.InitGlobalLoggers(AppConfig.Server.LogPath, AppConfig.Server.AccessLogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	if flagAppLogPath != "" || flagAccessLogPath != "" || flagLogLevel != "" {
		logger.Info("Log path/level flags may have overridden config file/defaults.")
	}
	logger.Info("Backend base URL: %s (timeout %ds), %d tables in catalog", AppConfig.Backend.BaseURL, AppConfig.Backend.TimeoutSeconds, len(AppConfig.Tables))
	logger.Debug("Final AppConfig Initialized: %+v", AppConfig)
	return nil
}

// Timeout is the backend request timeout.
func (c Configuration) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// Table looks up a catalog entry by name.
func (c Configuration) Table(name string) (models.TableSpec, bool) {
	spec, ok := c.Tables[name]
	return spec, ok
}

// TableNames returns the catalog names in sorted order.
func (c Configuration) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
