package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/yahtzee-go/internal/api"
	"github.com/mcoot/yahtzee-go/internal/factory"
	"github.com/mcoot/yahtzee-go/internal/services/auth"
	"github.com/mcoot/yahtzee-go/internal/services/turn"
	redisstorage "github.com/mcoot/yahtzee-go/internal/storage/redis"
)

const envPrefix = "YAHTZEE"

// serverConfig is everything the server binary reads from flags and the
// environment
type serverConfig struct {
	Server  api.ServerConfig
	Factory factory.Config

	CleanupInterval time.Duration
	LogLevel        slog.Level
}

// registerFlags declares the server flags on fs
func registerFlags(fs *pflag.FlagSet) {
	defaults := api.DefaultServerConfig()
	animation := turn.DefaultAnimationConfig()

	fs.String("bind", defaults.Host, "Address to bind to")
	fs.Int("port", defaults.Port, "Port to listen on (0 picks a free port)")
	fs.String("storage", factory.StorageTypeMemory, "Storage backend: memory or redis")
	fs.String("redis-url", redisstorage.DefaultConfig().URL, "Redis connection URL")
	fs.Duration("roll-duration", animation.Duration, "How long dice tumble before settling")
	fs.Duration("roll-interval", animation.Interval, "Time between tumble frames")
	fs.Duration("session-duration", auth.DefaultConfig().SessionDuration, "Session lifetime")
	fs.String("public-url", "", "Externally visible base URL for QR join links")
	fs.Uint64("dice-seed", 0, "Seed dice and IDs for reproducible games (0 is random)")
	fs.Duration("hub-cleanup-interval", time.Minute, "How often idle event hubs are closed")
	fs.Bool("verbose", false, "Enable debug logging")

	// Accept snake_case spellings of every flag
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// newViper binds fs to viper with YAHTZEE_ environment overrides, so
// --redis-url can also be set as YAHTZEE_REDIS_URL
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

// loadConfig resolves the server configuration from v
func loadConfig(v *viper.Viper) (serverConfig, error) {
	cfg := serverConfig{
		Server:          api.DefaultServerConfig(),
		CleanupInterval: v.GetDuration("hub-cleanup-interval"),
		LogLevel:        slog.LevelInfo,
	}
	if v.GetBool("verbose") {
		cfg.LogLevel = slog.LevelDebug
	}

	cfg.Server.Host = v.GetString("bind")
	cfg.Server.Port = v.GetInt("port")
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.Server.Port)
	}

	animation := turn.AnimationConfig{
		Duration: v.GetDuration("roll-duration"),
		Interval: v.GetDuration("roll-interval"),
	}
	if animation.Duration <= 0 {
		return cfg, fmt.Errorf("roll-duration must be positive, got %s", animation.Duration)
	}

	cfg.Factory = factory.Config{
		AuthConfig:  auth.Config{SessionDuration: v.GetDuration("session-duration")},
		StorageType: v.GetString("storage"),
		Animation:   animation,
		DiceSeed:    v.GetUint64("dice-seed"),
		PublicURL:   strings.TrimSuffix(v.GetString("public-url"), "/"),
	}

	switch cfg.Factory.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = v.GetString("redis-url")
		redisCfg.SessionTTL = max(redisCfg.SessionTTL, cfg.Factory.AuthConfig.SessionDuration)
		cfg.Factory.RedisConfig = &redisCfg
	default:
		return cfg, fmt.Errorf("invalid storage %q: must be %q or %q",
			cfg.Factory.StorageType, factory.StorageTypeMemory, factory.StorageTypeRedis)
	}

	return cfg, nil
}
