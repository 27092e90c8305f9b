package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

type DiscordCfg struct {
	Token   string `mapstructure:"token"`
	GuildID string `mapstructure:"guild_id"`
}

type StoreCfg struct {
	Backend string `mapstructure:"backend"` // file, sqlite or postgres
}

type KindCfg struct {
	ScanInterval time.Duration `mapstructure:"scan_interval"`
}

type LogCfg struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	Discord   DiscordCfg `mapstructure:"discord"`
	Prefix    string     `mapstructure:"prefix"`
	DataDir   string     `mapstructure:"data_dir"`
	Store     StoreCfg   `mapstructure:"store"`
	DBURL     string     `mapstructure:"database_url"`
	Reminders KindCfg    `mapstructure:"reminders"`
	Timers    KindCfg    `mapstructure:"timers"`
	RateLimit int        `mapstructure:"ratelimit_per_minute"`
	Log       LogCfg     `mapstructure:"log"`
	Metrics   string     `mapstructure:"metrics_addr"`
	Version   string     `mapstructure:"version"`
}

// Load reads .env (if present) and the environment. Keys map to env vars by
// upper-casing and replacing dots with underscores, e.g. discord.token ->
// DISCORD_TOKEN.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.guild_id", "")
	v.SetDefault("prefix", ".")
	v.SetDefault("data_dir", "data")
	v.SetDefault("store.backend", "file")
	v.SetDefault("database_url", "")
	v.SetDefault("reminders.scan_interval", "30s")
	v.SetDefault("timers.scan_interval", "10s")
	v.SetDefault("ratelimit_per_minute", 15)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("version", "dev")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks what the bot needs before connecting.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return ErrMissingToken
	}
	switch c.Store.Backend {
	case "file":
	case "sqlite", "postgres":
		if c.DBURL == "" {
			return errors.New("DATABASE_URL is required for the " + c.Store.Backend + " store")
		}
	default:
		return errors.New("unknown STORE_BACKEND " + c.Store.Backend)
	}
	return nil
}
