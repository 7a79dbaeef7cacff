package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	defaultPath = "./config/config.yaml"
)

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" env:"HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

type Logging struct {
	Env       string `yaml:"env" env:"APP_ENV"`             // dev|stage|prod
	Service   string `yaml:"service" env:"LOG_SERVICE"`     // guestbook
	Version   string `yaml:"version" env:"APP_VERSION"`     // v0.1.0
	Backend   string `yaml:"backend" env:"LOG_BACKEND"`     // std|zap
	AddSource bool   `yaml:"addSource" env:"LOG_ADD_SOURCE"` // false|true
	Debug     bool   `yaml:"debug" env:"LOG_DEBUG"`         // false|true
}

type Database struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"` // postgres|mysql|sqlite
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`

	SSLMode string `yaml:"sslMode" env:"DB_SSLMODE"` // postgres only
	Path    string `yaml:"path" env:"DB_PATH"`       // sqlite only

	MaxConns        int32         `yaml:"maxConns" env:"DB_MAX_CONNS"`
	MinConns        int32         `yaml:"minConns" env:"DB_MIN_CONNS"`
	MaxConnLifetime time.Duration `yaml:"maxConnLifetime" env:"DB_MAX_CONN_LIFETIME"`
	MaxConnIdleTime time.Duration `yaml:"maxConnIdleTime" env:"DB_MAX_CONN_IDLE_TIME"`
	ConnectTimeout  time.Duration `yaml:"connectTimeout" env:"DB_CONNECT_TIMEOUT"`
	ApplicationName string        `yaml:"applicationName" env:"DB_APPLICATION_NAME"`
}

type Display struct {
	Title    string `yaml:"title" env:"DISPLAY_TITLE"`
	Timezone string `yaml:"timezone" env:"DISPLAY_TIMEZONE"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Database Database `yaml:"database"`
	Display  Display  `yaml:"display"`
}

// LoadConfig reads the yaml file at CONFIG_PATH (optional when unset), then
// .env, then the process environment. Later sources win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env", slog.Any("err", err))
	}

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required values and fills defaults.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if _, err := c.Display.Location(); err != nil {
		return err
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}

	if c.Logging.Service == "" {
		c.Logging.Service = "guestbook"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}

	if c.Display.Title == "" {
		c.Display.Title = "Simple Guestbook"
	}
	return nil
}

func (d *Database) Validate() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	if d.Driver == "" {
		d.Driver = DriverPostgres
	}

	switch d.Driver {
	case DriverPostgres, DriverMySQL:
		if d.Host == "" {
			return errors.New("database.host is required")
		}
		if d.User == "" {
			return errors.New("database.user is required")
		}
		if d.Name == "" {
			return errors.New("database.name is required")
		}
		if d.Port < 0 || d.Port > 65535 {
			return fmt.Errorf("database.port %d out of range", d.Port)
		}
	case DriverSQLite:
		if d.Path == "" {
			d.Path = "guestbook.db"
		}
	default:
		return fmt.Errorf("database.driver %q is not one of postgres|mysql|sqlite", d.Driver)
	}
	return nil
}

// PostgresDSN assembles a connection URL from the host/user/password/name values.
func (d Database) PostgresDSN() string {
	host := d.Host
	if d.Port > 0 {
		host = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	}

	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     host,
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Location resolves the display time zone, UTC when unset.
func (d Display) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("display.timezone: %w", err)
	}
	return loc, nil
}
