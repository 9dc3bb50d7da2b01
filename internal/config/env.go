package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. RESTAURANT_APP_ADDR.
const EnvPrefix = "RESTAURANT"

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Env struct {
	AppAddr        string
	GinMode        string
	Storage        string
	DSN            string
	JWTKey         string
	JWTIssuer      string
	JWTExpireDays  int
	AllowedOrigins []string
	MaxPageSize    int
	SlowRequest    time.Duration
	Seed           bool
	LogLevel       string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_addr", ":8080")
	v.SetDefault("gin_mode", "")
	v.SetDefault("storage", StorageMySQL)
	v.SetDefault("db_dsn", "root:@tcp(127.0.0.1:3306)/restaurant_db?parseTime=true&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s")
	v.SetDefault("jwt_key", "")
	v.SetDefault("jwt_issuer", "http://restaurantapi.local")
	v.SetDefault("jwt_expire_days", 15)
	v.SetDefault("allowed_origins", "http://localhost:8080")
	v.SetDefault("max_page_size", 50)
	v.SetDefault("slow_request_ms", 4000)
	v.SetDefault("seed", true)
	v.SetDefault("log_level", "info")
}

// LoadEnv reads configuration from the global viper instance, which cobra
// flags are bound to.
func LoadEnv() (Env, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from environment variables and, when the
// "config" key is set, from that file.
func LoadFrom(v *viper.Viper) (Env, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("config")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Env{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	env := Env{
		AppAddr:        strings.TrimSpace(v.GetString("app_addr")),
		GinMode:        strings.TrimSpace(v.GetString("gin_mode")),
		Storage:        strings.ToLower(strings.TrimSpace(v.GetString("storage"))),
		DSN:            strings.TrimSpace(v.GetString("db_dsn")),
		JWTKey:         v.GetString("jwt_key"),
		JWTIssuer:      strings.TrimSpace(v.GetString("jwt_issuer")),
		JWTExpireDays:  v.GetInt("jwt_expire_days"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),
		MaxPageSize:    v.GetInt("max_page_size"),
		SlowRequest:    time.Duration(v.GetInt("slow_request_ms")) * time.Millisecond,
		Seed:           v.GetBool("seed"),
		LogLevel:       strings.TrimSpace(v.GetString("log_level")),
	}
	if env.AppAddr == "" {
		env.AppAddr = ":8080"
	}
	return env, env.Validate()
}

func (e Env) Validate() error {
	var errs []error
	switch e.Storage {
	case StorageMySQL:
		if e.DSN == "" {
			errs = append(errs, errors.New("db_dsn is required for mysql storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q (want %s or %s)", e.Storage, StorageMySQL, StorageMemory))
	}
	if len(e.JWTKey) < 32 {
		errs = append(errs, errors.New("jwt_key must be at least 32 characters"))
	}
	if e.JWTIssuer == "" {
		errs = append(errs, errors.New("jwt_issuer is required"))
	}
	if e.JWTExpireDays <= 0 {
		errs = append(errs, errors.New("jwt_expire_days must be positive"))
	}
	if e.MaxPageSize <= 0 {
		errs = append(errs, errors.New("max_page_size must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
