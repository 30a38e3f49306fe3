// Package wizard runs multi-step reaction and text dialogues on a single message.
package wizard

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/google/uuid"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/embed"
	"github.com/easysystem/assistant/messaging"
)

const ErrAlreadyRunning = errors.Sentinel("a wizard for this command is already running")

// DefaultTimeout is used for steps that do not set their own timeout.
const DefaultTimeout = time.Minute

// ConfirmPayload is the result recorded for an accepted Confirm step.
const ConfirmPayload = "confirm"

// WaiterFunc returns the event source for a guild, usually the state of the guild's shard.
type WaiterFunc func(guildID discord.GuildID) common.StateWaiter

// Static returns a WaiterFunc that always returns w.
func Static(w common.StateWaiter) WaiterFunc {
	return func(discord.GuildID) common.StateWaiter { return w }
}

// Recorder counts run outcomes. *stats.Client implements it.
type Recorder interface {
	RegisterEvent(name string)
}

type Style struct {
	Select  embed.Colour
	Success embed.Colour
	Fail    embed.Colour
	Warn    embed.Colour

	Footer     string
	FooterIcon string

	Cancel  discord.APIEmoji
	Confirm discord.APIEmoji
}

var DefaultStyle = Style{
	Select:  0x006266,
	Success: 0x27ae60,
	Fail:    0xc23616,
	Warn:    0xf1c40f,

	Cancel:  "❌",
	Confirm: "✅",
}

type Engine struct {
	gw      messaging.Gateway
	waiter  WaiterFunc
	style   Style
	timeout time.Duration
	stats   Recorder

	active *common.Set[runKey]
}

type Option func(*Engine)

func WithStyle(s Style) Option {
	return func(e *Engine) { e.style = s }
}

func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.stats = r }
}

func NewEngine(gw messaging.Gateway, waiter WaiterFunc, opts ...Option) *Engine {
	e := &Engine{
		gw:      gw,
		waiter:  waiter,
		style:   DefaultStyle,
		timeout: DefaultTimeout,
		active:  common.NewSet[runKey](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invocation identifies who started a wizard, and where.
type Invocation struct {
	GuildID   discord.GuildID
	ChannelID discord.ChannelID
	UserID    discord.UserID
	// Command names what was invoked. One user can run one wizard per command at a time.
	Command string
}

type runKey struct {
	user    discord.UserID
	command string
}

// Outcome is the result of a finished run.
type Outcome struct {
	State   State
	Results []string
	// Message is the prompt message the run was shown in.
	Message messaging.Ref
}

// Running returns true if user has an active run of command.
func (e *Engine) Running(user discord.UserID, command string) bool {
	return e.active.Exists(runKey{user, command})
}

// Run sends the first prompt to inv.ChannelID and drives w to completion.
// Cancellation and timeouts are outcomes, not errors. The error is non-nil if
// the wizard was invalid, the prompt could not be sent, or the run Failed.
func (e *Engine) Run(ctx context.Context, inv Invocation, w Wizard) (Outcome, error) {
	if err := w.validate(e.style.Cancel); err != nil {
		return Outcome{}, err
	}

	key := runKey{inv.UserID, inv.Command}
	if !e.active.Add(key) {
		return Outcome{}, ErrAlreadyRunning
	}
	defer e.active.Remove(key)

	r := &run{
		Engine: e,
		inv:    inv,
		wizard: w,
		waiter: e.waiter(inv.GuildID),
		log:    log.Named("wizard", "run", uuid.New().String(), "command", inv.Command, "user", inv.UserID),
	}

	out, err := r.drive(ctx)
	r.log.Debugf("Run finished: %v", out.State)
	if e.stats != nil {
		e.stats.RegisterEvent("wizard_" + out.State.String())
	}
	return out, err
}
