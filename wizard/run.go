package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/messaging"
)

// run is the mutable state of one Engine.Run call.
type run struct {
	*Engine

	inv    Invocation
	wizard Wizard
	waiter common.StateWaiter
	log    *zap.SugaredLogger

	step    int
	state   State
	results []string
	msg     messaging.Ref
}

func (r *run) outcome() Outcome {
	return Outcome{State: r.state, Results: r.results, Message: r.msg}
}

func (r *run) timeoutFor(step Step) time.Duration {
	if step.Timeout > 0 {
		return step.Timeout
	}
	return r.timeout
}

func (r *run) drive(ctx context.Context) (Outcome, error) {
	for i, step := range r.wizard.Steps {
		r.step = i
		r.state = step.Kind.awaiting()

		if err := r.show(ctx, r.promptContent(step)); err != nil {
			return r.abort(ctx, err)
		}

		var (
			result string
			next   State
			err    error
		)
		switch step.Kind {
		case Reaction:
			result, next, err = r.awaitChoice(ctx, step, step.Choices)
		case Text:
			result, next, err = r.awaitText(ctx, step)
		case Confirm:
			result, next, err = r.awaitChoice(ctx, step, []Choice{{Emoji: r.style.Confirm, Payload: ConfirmPayload}})
		}
		if err != nil {
			return r.abort(ctx, err)
		}

		if next != r.state {
			return r.finish(ctx, next)
		}
		r.results = append(r.results, result)
	}

	if r.wizard.Action != nil {
		if err := r.wizard.Action(ctx, append([]string(nil), r.results...)); err != nil {
			out, _ := r.finish(ctx, Failed)
			return out, errors.Wrap(err, "running wizard action")
		}
	}
	return r.finish(ctx, Succeeded)
}

// show sends the prompt message on the first call and edits it afterwards.
func (r *run) show(ctx context.Context, c messaging.Content) error {
	if !r.msg.IsValid() {
		msg, err := r.gw.Send(ctx, r.inv.ChannelID, c)
		if err != nil {
			return errors.Wrap(err, "sending prompt")
		}
		r.msg = messaging.Ref{ChannelID: msg.ChannelID, MessageID: msg.ID}
		return nil
	}

	_, err := r.gw.Edit(ctx, r.msg.ChannelID, r.msg.MessageID, c)
	return errors.Wrap(err, "editing prompt")
}

// abort ends the run after a gateway error or a cancelled context.
// A deleted prompt message counts as the user cancelling.
func (r *run) abort(ctx context.Context, err error) (Outcome, error) {
	if ctx.Err() != nil {
		r.state = Cancelled
		return r.outcome(), ctx.Err()
	}

	if r.msg.IsValid() && messaging.IsNotFound(err) {
		r.log.Debugf("Prompt message was deleted, cancelling")
		r.state = Cancelled
		return r.outcome(), nil
	}

	if !r.msg.IsValid() {
		r.state = Failed
		return r.outcome(), err
	}

	out, _ := r.finish(ctx, Failed)
	return out, err
}

// finish moves the run to a terminal state and shows it.
func (r *run) finish(ctx context.Context, state State) (Outcome, error) {
	r.state = state
	r.bestEffort("clearing reactions", r.gw.ClearReactions(ctx, r.msg.ChannelID, r.msg.MessageID))

	_, err := r.gw.Edit(ctx, r.msg.ChannelID, r.msg.MessageID, r.terminalContent(state))
	if err != nil && !messaging.IsNotFound(err) {
		r.log.Errorf("Error showing %v: %v", state, err)
	}
	return r.outcome(), nil
}

// bestEffort logs errors of calls whose failure must not end the run.
func (r *run) bestEffort(what string, err error) {
	if err == nil {
		return
	}
	if messaging.IsForbidden(err) || messaging.IsNotFound(err) {
		r.log.Debugf("Ignoring error %v: %v", what, err)
		return
	}
	r.log.Errorf("Error %v: %v", what, err)
}

// awaitChoice waits for one of choices or the cancel emoji from the invoking user.
// Other reactions by the user are removed while the same wait continues until the step's deadline.
func (r *run) awaitChoice(ctx context.Context, step Step, choices []Choice) (string, State, error) {
	for _, c := range choices {
		r.bestEffort("adding reaction", r.gw.React(ctx, r.msg.ChannelID, r.msg.MessageID, c.Emoji))
	}
	r.bestEffort("adding reaction", r.gw.React(ctx, r.msg.ChannelID, r.msg.MessageID, r.style.Cancel))

	sctx, cancel := context.WithTimeout(ctx, r.timeoutFor(step))
	defer cancel()

	var unreacts sync.WaitGroup
	ev, ok := common.WaitFor(sctx, r.waiter, func(ev *gateway.MessageReactionAddEvent) bool {
		if ev.MessageID != r.msg.MessageID || ev.UserID != r.inv.UserID {
			return false
		}

		emoji := ev.Emoji.APIString()
		if emoji == r.style.Cancel || choiceIndex(choices, emoji) != -1 {
			return true
		}

		unreacts.Add(1)
		go func() {
			defer unreacts.Done()
			r.bestEffort("removing reaction", r.gw.Unreact(ctx, r.msg.ChannelID, r.msg.MessageID, r.inv.UserID, emoji))
		}()
		return false
	})
	unreacts.Wait()

	if !ok {
		return r.expired(ctx)
	}

	emoji := ev.Emoji.APIString()
	if emoji == r.style.Cancel {
		return "", Cancelled, nil
	}

	r.bestEffort("clearing reactions", r.gw.ClearReactions(ctx, r.msg.ChannelID, r.msg.MessageID))
	return choices[choiceIndex(choices, emoji)].Payload, r.state, nil
}

func choiceIndex(choices []Choice, emoji discord.APIEmoji) int {
	for i, c := range choices {
		if c.Emoji == emoji {
			return i
		}
	}
	return -1
}

// awaitText waits for a non-empty message from the invoking user in the invocation channel.
func (r *run) awaitText(ctx context.Context, step Step) (string, State, error) {
	ev, timedOut, ok := common.WaitForTimeout(ctx, r.waiter, r.timeoutFor(step), func(ev *gateway.MessageCreateEvent) bool {
		return ev.ChannelID == r.inv.ChannelID && ev.Author.ID == r.inv.UserID &&
			strings.TrimSpace(ev.Content) != ""
	})
	if !ok {
		if timedOut {
			return "", TimedOut, nil
		}
		return "", r.state, ctx.Err()
	}

	r.bestEffort("deleting input", r.gw.Delete(ctx, ev.ChannelID, ev.ID))

	text := strings.TrimSpace(ev.Content)
	switch {
	case strings.EqualFold(text, "cancel"):
		return "", Cancelled, nil
	case step.None != "" && strings.EqualFold(text, step.None):
		return "", r.state, nil
	}
	return text, r.state, nil
}

// expired is called when a wait ended without an event.
func (r *run) expired(ctx context.Context) (string, State, error) {
	if err := ctx.Err(); err != nil {
		return "", r.state, err
	}
	return "", TimedOut, nil
}

// choiceLine formats one choice for a prompt.
func choiceLine(c Choice) string {
	emoji := string(c.Emoji)
	if name, id, ok := strings.Cut(emoji, ":"); ok {
		if _, err := discord.ParseSnowflake(id); err == nil {
			emoji = "<:" + name + ":" + id + ">"
		}
	}

	if c.Label == "" {
		return emoji
	}
	return emoji + " **- " + c.Label + "**"
}
