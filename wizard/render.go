package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/easysystem/assistant/directive"
	"github.com/easysystem/assistant/embed"
	"github.com/easysystem/assistant/messaging"
)

func (r *run) base(colour embed.Colour) embed.Embed {
	e := embed.Embed{
		Author: &embed.Author{Name: r.wizard.Name},
		Colour: &colour,
	}
	if r.style.Footer != "" {
		e.Footer = &embed.Footer{Text: r.style.Footer, Icon: r.style.FooterIcon}
	}
	return e
}

func (r *run) promptContent(step Step) messaging.Content {
	title := step.Title.Resolve(r.results)
	body := step.Body.Resolve(r.results)

	if step.Kind == Confirm {
		var preview embed.Embed
		if step.Render != nil {
			preview = step.Render(r.results)
		} else {
			preview = embed.Build(directive.Parse(step.Preview.Resolve(r.results)))
		}

		var b strings.Builder
		if title != "" {
			b.WriteString("**" + title + "**\n")
		}
		if body != "" {
			b.WriteString(body + "\n")
		}
		fmt.Fprintf(&b, "Use %v to confirm! (Use %v to cancel)", r.style.Confirm, r.style.Cancel)
		return messaging.Content{Text: b.String(), Embed: &preview}
	}

	e := r.base(r.style.Select)

	var b strings.Builder
	if title != "" {
		b.WriteString("__**" + title + "**__\n\n")
	}
	if body != "" {
		b.WriteString(body + "\n\n")
	}

	switch step.Kind {
	case Reaction:
		for _, c := range step.Choices {
			b.WriteString(choiceLine(c) + "\n")
		}
		fmt.Fprintf(&b, "\nUse %v to abort the selection!", r.style.Cancel)
	case Text:
		if step.None != "" {
			fmt.Fprintf(&b, "Reply with '%v' to leave this empty.\n", step.None)
		}
		b.WriteString("Reply with 'cancel' to cancel")
	}

	e.Description = b.String()
	return messaging.Content{Embed: &e}
}

func (r *run) terminalContent(state State) messaging.Content {
	var e embed.Embed
	switch state {
	case Succeeded:
		e = r.base(r.style.Success)
		e.Title = r.wizard.Success.Title.Resolve(r.results)
		e.Description = r.wizard.Success.Body.Resolve(r.results)
		if e.Title == "" && e.Description == "" {
			e.Title = "Done!"
		}
	case Cancelled:
		e = r.base(r.style.Fail)
		e.Title = "Selection canceled!"
		e.Description = "The selection was successfully canceled!"
	case TimedOut:
		e = r.base(r.style.Warn)
		e.Title = "Selection timed out!"
		e.Description = fmt.Sprintf("The selection was aborted after %v without input.",
			humanDuration(r.timeoutFor(r.wizard.Steps[r.step])))
	default:
		e = r.base(r.style.Fail)
		e.Title = "Something went wrong!"
		e.Description = "The selection could not be completed. Please try again later."
	}
	return messaging.Content{Embed: &e}
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Minute && d%time.Minute == 0:
		return english.Plural(int(d/time.Minute), "minute", "")
	case d >= time.Second:
		return english.Plural(int(d/time.Second), "second", "")
	default:
		return d.String()
	}
}
