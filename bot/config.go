package bot

import (
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/joho/godotenv"
)

// Settings backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Auth   AuthConfig   `toml:"auth"`
	Bot    BotConfig    `toml:"bot"`
	Wizard WizardConfig `toml:"wizard"`
	Web    WebConfig    `toml:"web"`
	Info   InfoConfig   `toml:"info"`
}

type AuthConfig struct {
	Discord  string `toml:"discord"`
	Postgres string `toml:"postgres"`
	Redis    string `toml:"redis"`
	Sentry   string `toml:"sentry"`

	Influx AuthInfluxConfig `toml:"influx"`
}

type AuthInfluxConfig struct {
	URL          string `toml:"url"`
	Token        string `toml:"token"`
	Organization string `toml:"organization"`
	Database     string `toml:"database"`
}

type BotConfig struct {
	Owner           discord.UserID  `toml:"owner"`
	CommandsGuildID discord.GuildID `toml:"commands_guild_id"`
	NoSyncCommands  bool            `toml:"no_sync_commands"`
	Debug           bool            `toml:"debug"`

	// Settings is the settings backend, one of "postgres", "redis" or "memory".
	// Defaults to postgres.
	Settings string `toml:"settings"`
	// CacheSeconds is how long settings are cached in memory. 0 disables the cache.
	CacheSeconds int `toml:"cache_seconds"`

	// NoAutoMigrate specifies if migrations should be done automatically when the bot starts.
	// If this is set to true, migrations must be done manually by running the `./assistant migrate` command.
	NoAutoMigrate bool `toml:"no_auto_migrate"`
}

type WizardConfig struct {
	// TimeoutSeconds is the default time a wizard waits for input.
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Footer         string `toml:"footer"`
	FooterIcon     string `toml:"footer_icon"`
	CancelEmoji    string `toml:"cancel_emoji"`
	ConfirmEmoji   string `toml:"confirm_emoji"`
}

// Timeout returns the configured wizard timeout, or 0 if unset.
func (c WizardConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type WebConfig struct {
	// Listen is the address the status API listens on. Empty disables it.
	Listen string `toml:"listen"`
	// Token is the bearer token required for guild routes.
	Token string `toml:"token"`
}

type InfoConfig struct {
	SupportServer string `toml:"support_server"`

	HelpFields []discord.EmbedField `toml:"help_fields"`
}

// ReadConfig reads a .env file if one exists, then path, then applies environment overrides.
// A missing config file is not an error if the token is set in the environment.
func ReadConfig(path string) (c Config, err error) {
	err = godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return c, errors.Wrap(err, "load .env file")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) || os.Getenv("TOKEN") == "" {
			return c, errors.Wrap(err, "read config file")
		}
	} else {
		err = toml.Unmarshal(b, &c)
		if err != nil {
			return c, errors.Wrap(err, "unmarshal config")
		}
	}

	c.applyEnv()

	switch c.Bot.Settings {
	case "":
		c.Bot.Settings = BackendPostgres
	case BackendPostgres, BackendRedis, BackendMemory:
	default:
		return c, errors.Errorf("unknown settings backend %q", c.Bot.Settings)
	}

	return c, nil
}

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		"TOKEN":        &c.Auth.Discord,
		"DATABASE_URL": &c.Auth.Postgres,
		"REDIS_URL":    &c.Auth.Redis,
		"SENTRY_URL":   &c.Auth.Sentry,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}
