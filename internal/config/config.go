package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"hitbit/internal/influx"
	"hitbit/internal/shared/logger"
	"hitbit/internal/simulation"
	"hitbit/internal/storage"
)

const (
	fileName  = "hitbit"
	envPrefix = "HITBIT"
)

type Config struct {
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	Server   ServerConfig  `json:"server" mapstructure:"server"`
	Match    MatchConfig   `json:"match" mapstructure:"match"`
	Storage  StorageConfig `json:"storage" mapstructure:"storage"`
	DB       DBConfig      `json:"db" mapstructure:"db"`
	Influx   InfluxConfig  `json:"influx" mapstructure:"influx"`
	Graylog  GraylogConfig `json:"graylog" mapstructure:"graylog"`
}

type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// MatchConfig is the setup menu in config form.
type MatchConfig struct {
	Humans        int           `json:"humans" mapstructure:"humans"`
	HumanProfiles []string      `json:"humanProfiles" mapstructure:"humanProfiles"`
	CPUs          int           `json:"cpus" mapstructure:"cpus"`
	PlatformSize  float64       `json:"platformSize" mapstructure:"platformSize"`
	TickMs        int           `json:"tickMs" mapstructure:"tickMs"`
	RestartDelay  time.Duration `json:"restartDelay" mapstructure:"restartDelay"`
}

type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("server.addr", ":9003")

	viper.SetDefault("match.humans", 1)
	viper.SetDefault("match.humanProfiles", []string{"balance"})
	viper.SetDefault("match.cpus", 1)
	viper.SetDefault("match.platformSize", 50.0)
	viper.SetDefault("match.tickMs", 100)
	viper.SetDefault("match.restartDelay", "5s")

	viper.SetDefault("storage.type", "none")
	viper.SetDefault("storage.sqlite.path", "./hitbit.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "hitbit")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "hitbit")
	viper.SetDefault("influx.bucket", "matches")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// Load reads configuration into the global viper instance and decodes it.
// Precedence, highest first: HITBIT_* environment (including a .env file
// in configDir), hitbit.json in configDir, defaults. Both files are
// optional.
func Load(configDir string) (Config, error) {
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error reading .env file: %w", err)
	}

	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(fileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// Setup resolves the configured menu choices into a match setup. Humans
// beyond the listed profiles drive the last listed one.
func (m MatchConfig) Setup() (simulation.Setup, error) {
	if m.Humans < 0 {
		return simulation.Setup{}, fmt.Errorf("%w: humans must be >= 0, got=%d", simulation.ErrInvalidSetup, m.Humans)
	}
	keys := m.HumanProfiles
	if len(keys) == 0 {
		keys = []string{simulation.Balance.Key}
	}

	profiles := make([]simulation.VehicleProfile, m.Humans)
	for i := range profiles {
		key := keys[min(i, len(keys)-1)]
		p, err := simulation.LookupProfile(key)
		if err != nil {
			return simulation.Setup{}, fmt.Errorf("player %d: %w", i+1, err)
		}
		profiles[i] = p
	}

	s := simulation.Setup{
		HumanProfiles: profiles,
		CPUCount:      m.CPUs,
		PlatformSize:  m.PlatformSize,
	}
	return s, s.Validate()
}

// Tick is the wall-clock frame interval. Unset means the reference 100ms.
func (m MatchConfig) Tick() time.Duration {
	if m.TickMs <= 0 {
		return simulation.TickDuration
	}
	return time.Duration(m.TickMs) * time.Millisecond
}

func (c Config) StorageConfig() storage.Config {
	return storage.Config{
		Type:       c.Storage.Type,
		SQLitePath: c.Storage.SQLite.Path,
		Postgres: storage.PostgresConfig{
			Host:     c.DB.Host,
			Port:     c.DB.Port,
			Username: c.DB.Username,
			Password: c.DB.Password,
			Database: c.DB.Database,
		},
	}
}

func (c Config) InfluxConfig() influx.Config {
	return influx.Config{
		Enabled: c.Influx.Enabled,
		URL:     fmt.Sprintf("%s://%s:%s", c.Influx.Protocol, c.Influx.Host, c.Influx.Port),
		Token:   c.Influx.Token,
		Org:     c.Influx.Org,
		Bucket:  c.Influx.Bucket,
	}
}

func (c Config) LoggerOptions() logger.Options {
	opts := logger.Options{Level: c.LogLevel}
	if c.Graylog.Enabled {
		opts.GraylogAddr = c.Graylog.Address
	}
	return opts
}
