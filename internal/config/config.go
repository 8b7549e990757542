package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/DoyleJ11/grid-duel/internal/engine"
	"github.com/DoyleJ11/grid-duel/internal/transport"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

const (
	DefaultListenAddr = "127.0.0.1:8080"
	DefaultLogFile    = "gridduel.log"
	DefaultTick       = 16 * time.Millisecond
	MinTick           = time.Millisecond

	HostFlag   = "--host"
	ClientFlag = "--client"

	Usage = "usage: gridduel --host | gridduel --client <host:port>"
)

var ErrMissingRole = errors.New("expected arguments: --host or --client <addr>")
var ErrUnknownRole = errors.New("unknown command")
var ErrMissingAddr = errors.New("expected address after --client")
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Role        engine.Role    `mapstructure:"-"`
	RemoteAddr  string         `mapstructure:"-"`
	ListenAddr  string         `mapstructure:"listen_addr"`
	Transport   transport.Kind `mapstructure:"transport"`
	LogLevel    string         `mapstructure:"log_level"`
	LogFile     string         `mapstructure:"log_file"`
	Development bool           `mapstructure:"development"`
	Tick        time.Duration  `mapstructure:"tick"`
}

func Default() Config {
	return Config{
		ListenAddr: DefaultListenAddr,
		Transport:  transport.KindTCP,
		LogLevel:   "info",
		LogFile:    DefaultLogFile,
		Tick:       DefaultTick,
	}
}

// Env variable -> config key.
var envKeys = map[string]string{
	"GRIDDUEL_LISTEN_ADDR": "listen_addr",
	"GRIDDUEL_TRANSPORT":   "transport",
	"GRIDDUEL_LOG_LEVEL":   "log_level",
	"GRIDDUEL_LOG_FILE":    "log_file",
	"GRIDDUEL_DEVELOPMENT": "development",
	"GRIDDUEL_TICK":        "tick",
}

const FileEnv = "GRIDDUEL_CONFIG"

// Load layers defaults, .env, the YAML file named by $GRIDDUEL_CONFIG,
// GRIDDUEL_* variables and finally the positional args (without program name).
func Load(args []string) (Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		raw, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := decode(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := decode(fromEnv(), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	role, addr, err := ParseArgs(args)
	if err != nil {
		return Config{}, err
	}
	cfg.Role = role
	cfg.RemoteAddr = addr

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseArgs reads the role selector and, for a client, the host address.
func ParseArgs(args []string) (engine.Role, string, error) {
	if len(args) == 0 {
		return "", "", ErrMissingRole
	}

	switch args[0] {
	case HostFlag:
		return engine.RoleHost, "", nil
	case ClientFlag:
		if len(args) < 2 || args[1] == "" {
			return "", "", ErrMissingAddr
		}
		return engine.RoleClient, args[1], nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnknownRole, args[0])
	}
}

func (c Config) Validate() error {
	switch c.Role {
	case engine.RoleHost:
		if c.ListenAddr == "" {
			return fmt.Errorf("%w: empty listen address", ErrInvalid)
		}
	case engine.RoleClient:
		if c.RemoteAddr == "" {
			return ErrMissingAddr
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRole, c.Role)
	}

	switch c.Transport {
	case transport.KindTCP, transport.KindWS:
	default:
		return fmt.Errorf("%w: transport %q", ErrInvalid, c.Transport)
	}

	// A bare number decodes as nanoseconds; "tick: 16" is almost certainly a missing unit.
	if c.Tick < MinTick {
		return fmt.Errorf("%w: tick must be at least %s (with a unit, e.g. 16ms), got %s", ErrInvalid, MinTick, c.Tick)
	}
	return nil
}

func readFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml config %s: %w", path, err)
	}
	return raw, nil
}

func fromEnv() map[string]interface{} {
	raw := make(map[string]interface{})
	for env, key := range envKeys {
		if v, ok := os.LookupEnv(env); ok {
			raw[key] = v
		}
	}
	return raw
}

// decode merges raw onto cfg; keys missing from raw leave cfg untouched.
func decode(raw map[string]interface{}, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
