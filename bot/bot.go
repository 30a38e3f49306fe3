package bot

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	arikawastore "github.com/diamondburned/arikawa/v3/state/store"
	"github.com/diamondburned/arikawa/v3/utils/ws"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/db"
	"github.com/easysystem/assistant/db/stats"
	"github.com/easysystem/assistant/links"
	"github.com/easysystem/assistant/messaging"
	"github.com/easysystem/assistant/settings"
	"github.com/easysystem/assistant/settings/redis"
	"github.com/easysystem/assistant/wizard"
)

const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMessages |
	gateway.IntentGuildMessageReactions |
	gateway.IntentMessageContent

type Bot struct {
	Router  *cmdroute.Router
	Manager *shard.Manager
	// Client is used for all REST calls outside of interaction responses.
	Client *api.Client

	Config Config
	// DB is nil unless the postgres settings backend is used.
	DB       *db.DB
	Settings settings.Store
	Stats    *stats.Client

	Gateway *messaging.Discord
	Links   *links.Registry
	Wizards *wizard.Engine

	// Commands are the slash commands registered by modules, synced on startup.
	Commands []api.CreateCommandData

	started time.Time
	closers []func() error
}

// New creates a new Bot. ctx bounds the background goroutines started here.
func New(ctx context.Context, c Config) (*Bot, error) {
	log.SetDebug(c.Bot.Debug)

	// set up debug logging
	ws.WSDebug = log.Debug
	ws.WSError = func(err error) {
		log.SugaredLogger.Error("ws error: ", err)
	}

	bot := &Bot{
		Config:  c,
		Router:  cmdroute.NewRouter(),
		Client:  api.NewClient("Bot " + c.Auth.Discord),
		started: time.Now(),
	}

	// set up the shard manager, including intents and stores
	mgr, err := shard.NewManager("Bot "+c.Auth.Discord, state.NewShardFunc(func(m *shard.Manager, s *state.State) {
		s.AddIntents(Intents)
		s.AddInteractionHandler(bot.Router)

		// nothing reads these from the cabinet
		s.Cabinet.MemberStore = arikawastore.Noop
		s.Cabinet.MessageStore = arikawastore.Noop
		s.Cabinet.PresenceStore = arikawastore.Noop
		s.Cabinet.VoiceStateStore = arikawastore.Noop
	}))
	if err != nil {
		return nil, errors.Wrap(err, "creating shard manager")
	}
	bot.Manager = mgr

	hookResponses(bot.Client, bot.onResponse)

	bot.Stats = stats.New(ctx, c.Auth.Influx.URL, c.Auth.Influx.Token, c.Auth.Influx.Organization, c.Auth.Influx.Database)

	bot.Settings, err = bot.openSettings(ctx)
	if err != nil {
		return nil, err
	}

	bot.Gateway = messaging.NewDiscord(bot.Client)
	bot.Links = links.NewRegistry(bot.Settings, bot.Gateway, links.WithRecorder(bot.Stats))
	bot.Wizards = wizard.NewEngine(bot.Gateway, bot.waiter, bot.wizardOptions()...)

	bot.Router.Use(bot.countCommands)

	// add self user cache handler
	mgr.Shard(0).(*state.State).AddHandler(bot.ready)

	return bot, nil
}

func (bot *Bot) openSettings(ctx context.Context) (store settings.Store, err error) {
	switch bot.Config.Bot.Settings {
	case BackendMemory:
		log.Warn("Using in-memory settings, nothing will be persisted")
		return settings.NewMemory(), nil
	case BackendRedis:
		rs, err := redis.New(ctx, bot.Config.Auth.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "creating redis store")
		}
		bot.closers = append(bot.closers, rs.Close)
		store = rs
	default:
		bot.DB, err = db.New(ctx, bot.Config.Auth.Postgres, bot.Config.Bot.NoAutoMigrate)
		if err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
		bot.closers = append(bot.closers, func() error {
			bot.DB.Close()
			return nil
		})
		store = bot.DB
	}

	if bot.Config.Bot.CacheSeconds > 0 {
		cache := settings.NewCache(store, time.Duration(bot.Config.Bot.CacheSeconds)*time.Second)
		bot.closers = append(bot.closers, cache.Close)
		store = cache
	}
	return store, nil
}

func (bot *Bot) wizardOptions() []wizard.Option {
	style := wizard.DefaultStyle
	style.Footer = bot.Config.Wizard.Footer
	style.FooterIcon = bot.Config.Wizard.FooterIcon
	if bot.Config.Wizard.CancelEmoji != "" {
		style.Cancel = discord.APIEmoji(bot.Config.Wizard.CancelEmoji)
	}
	if bot.Config.Wizard.ConfirmEmoji != "" {
		style.Confirm = discord.APIEmoji(bot.Config.Wizard.ConfirmEmoji)
	}

	opts := []wizard.Option{wizard.WithStyle(style), wizard.WithRecorder(bot.Stats)}
	if t := bot.Config.Wizard.Timeout(); t != 0 {
		opts = append(opts, wizard.WithDefaultTimeout(t))
	}
	return opts
}

func (bot *Bot) waiter(guildID discord.GuildID) common.StateWaiter {
	s, _ := bot.StateFromGuildID(guildID)
	return s
}

// AddCommands registers command definitions to be synced.
func (bot *Bot) AddCommands(cmds ...api.CreateCommandData) {
	bot.Commands = append(bot.Commands, cmds...)
}

func (bot *Bot) Open(ctx context.Context) error {
	log.Debug("opening gateway connection")

	err := bot.Manager.Open(ctx)
	if err != nil {
		return err
	}

	if bot.Config.Bot.NoSyncCommands {
		log.Info("Not syncing slash commands, set no_sync_commands to false to sync them")
		return nil
	}

	err = bot.SyncCommands(bot.Config.Bot.CommandsGuildID)
	if err != nil {
		log.Errorf("Error syncing slash commands: %v", err)
	}
	return nil
}

// SyncCommands overwrites the bot's slash commands, in guildID if it is valid, globally otherwise.
func (bot *Bot) SyncCommands(guildID discord.GuildID) error {
	if !guildID.IsValid() {
		err := cmdroute.OverwriteCommands(bot.Client, bot.Commands)
		if err != nil {
			return errors.Wrap(err, "overwriting global commands")
		}
		log.Infof("Synced %v global commands", len(bot.Commands))
		return nil
	}

	app, err := bot.Client.CurrentApplication()
	if err != nil {
		return errors.Wrap(err, "fetching application")
	}

	_, err = bot.Client.BulkOverwriteGuildCommands(app.ID, guildID, bot.Commands)
	if err != nil {
		return errors.Wrap(err, "overwriting guild commands")
	}
	log.Infof("Synced %v commands in %v", len(bot.Commands), guildID)
	return nil
}

func (bot *Bot) Close() error {
	err := bot.Manager.Close()
	for i := len(bot.closers) - 1; i >= 0; i-- {
		if cErr := bot.closers[i](); cErr != nil {
			log.Errorf("Error closing: %v", cErr)
		}
	}
	return err
}

// Started returns when the bot was created.
func (bot *Bot) Started() time.Time {
	return bot.started
}

func (bot *Bot) Uptime() time.Duration {
	return time.Since(bot.started)
}

// AddHandler adds handlers to all states.
func (bot *Bot) AddHandler(i ...any) {
	bot.Manager.ForEach(func(shard shard.Shard) {
		s := shard.(*state.State)
		for _, hn := range i {
			s.AddHandler(hn)
		}
	})
}

func (bot *Bot) StateFromGuildID(guildID discord.GuildID) (s *state.State, id int) {
	shard, id := bot.Manager.FromGuildID(guildID)
	return shard.(*state.State), id
}

// ready caches the bot user so the gateway doesn't have to fetch it
func (bot *Bot) ready(ev *gateway.ReadyEvent) {
	if ev.Shard == nil || ev.Shard.ShardID() != 0 {
		return
	}
	bot.Gateway.SetMe(ev.User)
	log.Infof("User: %v (%v)", ev.User.Tag(), ev.User.ID)
}
