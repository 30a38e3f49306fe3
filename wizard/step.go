package wizard

import (
	"context"
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/embed"
)

// Kind is the kind of input a step waits for.
type Kind int

const (
	// Reaction waits for the user to pick one of the step's Choices.
	Reaction Kind = iota + 1
	// Text waits for a message from the user in the same channel.
	Text
	// Confirm shows a preview and waits for the confirm or cancel reaction.
	Confirm
)

func (k Kind) String() string {
	switch k {
	case Reaction:
		return "reaction"
	case Text:
		return "text"
	case Confirm:
		return "confirm"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) awaiting() State {
	switch k {
	case Reaction:
		return AwaitingReaction
	case Text:
		return AwaitingText
	default:
		return AwaitingConfirmation
	}
}

// State is the state of a run. Succeeded, Cancelled, TimedOut and Failed are terminal.
type State int

const (
	AwaitingReaction State = iota + 1
	AwaitingText
	AwaitingConfirmation
	Succeeded
	Cancelled
	TimedOut
	// Failed means the action or the gateway returned an unexpected error.
	Failed
)

var stateNames = map[State]string{
	AwaitingReaction:     "awaiting_reaction",
	AwaitingText:         "awaiting_text",
	AwaitingConfirmation: "awaiting_confirmation",
	Succeeded:            "succeeded",
	Cancelled:            "cancelled",
	TimedOut:             "timed_out",
	Failed:               "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) Terminal() bool {
	return s >= Succeeded
}

// Template is a format string whose verbs are filled from earlier results.
// Args are indexes into the results; an index that has no result yet resolves to "".
type Template struct {
	Format string
	Args   []int
}

// Literal is a template without arguments. s is used as-is, so it may contain '%'.
func Literal(s string) Template {
	return Template{Format: s}
}

func Format(format string, args ...int) Template {
	return Template{Format: format, Args: args}
}

func (t Template) Resolve(results []string) string {
	if len(t.Args) == 0 {
		return t.Format
	}

	vals := make([]any, len(t.Args))
	for i, idx := range t.Args {
		if idx >= 0 && idx < len(results) {
			vals[i] = results[idx]
		} else {
			vals[i] = ""
		}
	}
	return fmt.Sprintf(t.Format, vals...)
}

// Prompt is the text shown for a step.
type Prompt struct {
	Title Template
	Body  Template
}

// Choice is one option of a Reaction step.
type Choice struct {
	// Emoji is the reaction, either a unicode emoji or "name:id" for custom emoji.
	Emoji discord.APIEmoji
	Label string
	// Payload is recorded as the step's result.
	Payload string
}

// Step is one stage of a wizard. Steps are not modified by the engine.
type Step struct {
	Kind Kind
	Prompt

	// Choices are offered by Reaction steps, in order.
	Choices []Choice

	// Preview is directive text rendered as the embed of a Confirm step.
	Preview Template
	// Render builds the Confirm embed from the results instead of Preview.
	// Use it when results are user text that must not be read as directives.
	Render func(results []string) embed.Embed

	// None is a reply that a Text step records as an empty result, such as "none" for an optional value.
	None string

	// Timeout bounds the wait for input. Zero uses the engine's default.
	Timeout time.Duration
}

// Wizard is the full description of one dialogue.
type Wizard struct {
	// Name is shown as the author of every prompt.
	Name  string
	Steps []Step

	// Success is shown once Action returned without error.
	Success Prompt

	// Action is called with one result per step, in step order, once every step is done.
	Action func(ctx context.Context, results []string) error
}

const (
	ErrNoSteps        = errors.Sentinel("wizard has no steps")
	ErrNoChoices      = errors.Sentinel("reaction step has no choices")
	ErrReservedChoice = errors.Sentinel("reaction step uses the cancel emoji as a choice")
	ErrUnknownKind    = errors.Sentinel("unknown step kind")
)

func (w Wizard) validate(cancel discord.APIEmoji) error {
	if len(w.Steps) == 0 {
		return ErrNoSteps
	}

	for i, step := range w.Steps {
		switch step.Kind {
		case Reaction:
			if len(step.Choices) == 0 {
				return errors.WithDetails(ErrNoChoices, "step", i)
			}
			for _, c := range step.Choices {
				if c.Emoji == cancel {
					return errors.WithDetails(ErrReservedChoice, "step", i)
				}
			}
		case Text, Confirm:
		default:
			return errors.WithDetails(ErrUnknownKind, "step", i, "kind", step.Kind)
		}
	}
	return nil
}
