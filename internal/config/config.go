package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. PASSGEN_LENGTH or PASSGEN_JWT_SECRET.
const EnvPrefix = "PASSGEN"

var (
	ErrJWTSecretRequired = errors.New("PASSGEN_JWT_SECRET must be set in production environment")
	ErrInvalidValue      = errors.New("invalid configuration value")
)

type Config struct {
	Length      int
	NoSymbols   bool
	NoNumbers   bool
	OnlyLetters bool
	Hash        bool

	Port           string
	Env            string
	JWTSecret      string
	JWTExpiry      time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel slog.Level
}

// Load resolves configuration from, in order of precedence, flags explicitly
// set in fs, PASSGEN_* environment variables and built-in defaults. fs may be
// nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("length", 16)
	v.SetDefault("no-symbols", false)
	v.SetDefault("no-numbers", false)
	v.SetDefault("only-letters", false)
	v.SetDefault("hash", false)
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("jwt-secret", "")
	v.SetDefault("jwt-expiry", 24*time.Hour)
	v.SetDefault("rate-limit-rps", 5.0)
	v.SetDefault("rate-limit-burst", 10)
	v.SetDefault("log-level", "info")

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	r := &reader{v: v}
	cfg := Config{
		Length:         r.getInt("length"),
		NoSymbols:      r.getBool("no-symbols"),
		NoNumbers:      r.getBool("no-numbers"),
		OnlyLetters:    r.getBool("only-letters"),
		Hash:           r.getBool("hash"),
		Port:           v.GetString("port"),
		Env:            v.GetString("env"),
		JWTSecret:      v.GetString("jwt-secret"),
		JWTExpiry:      r.getDuration("jwt-expiry"),
		RateLimitRPS:   r.getFloat64("rate-limit-rps"),
		RateLimitBurst: r.getInt("rate-limit-burst"),
		LogLevel:       r.getLevel("log-level"),
	}
	if r.err != nil {
		return Config{}, r.err
	}

	return cfg, nil
}

// ValidateServer checks settings the HTTP server cannot run without.
func (c Config) ValidateServer() error {
	if c.Env == "production" && c.JWTSecret == "" {
		return ErrJWTSecretRequired
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("invalid rate limit %v/s burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}

// reader converts viper values strictly. Viper's Get* helpers map unparsable
// input to the zero value, so "PASSGEN_NO_SYMBOLS=yes" would read as false.
// The first failure is kept in err.
type reader struct {
	v   *viper.Viper
	err error
}

func (r *reader) getInt(key string) int {
	n, err := cast.ToIntE(r.v.Get(key))
	r.check(key, err)
	return n
}

func (r *reader) getBool(key string) bool {
	b, err := cast.ToBoolE(r.v.Get(key))
	r.check(key, err)
	return b
}

func (r *reader) getFloat64(key string) float64 {
	f, err := cast.ToFloat64E(r.v.Get(key))
	r.check(key, err)
	return f
}

func (r *reader) getDuration(key string) time.Duration {
	d, err := cast.ToDurationE(r.v.Get(key))
	r.check(key, err)
	return d
}

func (r *reader) getLevel(key string) slog.Level {
	var level slog.Level
	r.check(key, level.UnmarshalText([]byte(r.v.GetString(key))))
	return level
}

func (r *reader) check(key string, err error) {
	if err == nil || r.err != nil {
		return
	}
	r.err = fmt.Errorf("%w for %s (%s=%q): %w", ErrInvalidValue, key, envName(key), cast.ToString(r.v.Get(key)), err)
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
