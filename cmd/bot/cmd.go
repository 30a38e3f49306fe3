package bot

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"emperror.dev/errors"
	"github.com/getsentry/sentry-go"
	"github.com/urfave/cli/v2"

	"github.com/easysystem/assistant/bot"
	"github.com/easysystem/assistant/commands/embedlink"
	"github.com/easysystem/assistant/commands/meta"
	"github.com/easysystem/assistant/commands/update"
	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/web"
)

var Command = &cli.Command{
	Name:   "bot",
	Usage:  "Run the bot",
	Action: run,
}

func run(c *cli.Context) error {
	conf, err := bot.ReadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	// set up sentry
	if conf.Auth.Sentry != "" {
		log.Debug("setting up sentry")
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     conf.Auth.Sentry,
			Release: common.Version(),
		})
		if err != nil {
			log.Fatalf("setting up sentry: %v", err)
		}

		log.Debug("set up sentry")
	} else {
		log.Debugf("sentry DSN was not provided, not setting it up")
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := bot.New(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "creating bot")
	}

	// set up modules
	embedlink.Setup(b) // message links
	update.Setup(b)    // update assistant
	meta.Setup(b)      // help, ping, invite

	if conf.Web.Listen != "" {
		srv := web.New(b.Links, conf.Web.Token, b.Started())
		go func() {
			if err := srv.Run(ctx, conf.Web.Listen); err != nil {
				log.Errorf("Error running web server: %v", err)
			}
		}()
	}

	// actually run bot!
	err = b.Open(ctx)
	if err != nil {
		return errors.Wrap(err, "opening gateway connection")
	}

	defer func() {
		err = b.Close()
		if err != nil {
			log.Errorf("closing bot: %v", err)
		}
		sentry.Flush(2 * time.Second)
	}()

	go b.StatusLoop(ctx)

	log.Info("Connected to Discord. Press Ctrl-C or send an interrupt signal to stop.")
	<-ctx.Done()
	log.Info("Interrupt signal received. Shutting down...")
	return nil
}
