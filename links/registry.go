// Package links keeps bot-authored target messages in sync with the directive text
// of one or more origin messages.
package links

import (
	"context"
	"strings"
	"sync"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/directive"
	"github.com/easysystem/assistant/embed"
	"github.com/easysystem/assistant/messaging"
	"github.com/easysystem/assistant/settings"
)

// Placeholder is sent as the content of a fresh target message when its origin has no directives yet.
const Placeholder = "*This message will show the linked content once it contains directives.*"

// Recorder counts registry events. *stats.Client implements it.
type Recorder interface {
	RegisterEvent(name string)
}

type Registry struct {
	store settings.Store
	gw    messaging.Gateway
	stats Recorder

	// serialises read-modify-write of a guild's records
	locks *common.Map[discord.GuildID, *sync.Mutex]
}

type Option func(*Registry)

func WithRecorder(r Recorder) Option {
	return func(reg *Registry) {
		reg.stats = r
	}
}

func NewRegistry(store settings.Store, gw messaging.Gateway, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		gw:    gw,
		locks: common.NewMap[discord.GuildID, *sync.Mutex](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) lock(guildID discord.GuildID) func() {
	mu := r.locks.GetOrSet(guildID, func() *sync.Mutex { return new(sync.Mutex) })
	mu.Lock()
	return mu.Unlock
}

func (r *Registry) event(name string) {
	if r.stats != nil {
		r.stats.RegisterEvent(name)
	}
}

func (r *Registry) load(ctx context.Context, guildID discord.GuildID) (records, error) {
	var rs records
	err := r.store.Get(ctx, settings.Guild(guildID), SettingsKey, &rs)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return nil, errors.Wrap(err, "loading message links")
	}
	return rs, nil
}

func (r *Registry) save(ctx context.Context, guildID discord.GuildID, rs records) error {
	if len(rs) == 0 {
		return errors.Wrap(r.store.Delete(ctx, settings.Guild(guildID), SettingsKey), "deleting message links")
	}
	return errors.Wrap(r.store.Set(ctx, settings.Guild(guildID), SettingsKey, rs), "saving message links")
}

// List returns all links in a guild, in creation order.
func (r *Registry) List(ctx context.Context, guildID discord.GuildID) ([]Record, error) {
	return r.load(ctx, guildID)
}

// Find returns the link named name, matched case-insensitively.
func (r *Registry) Find(ctx context.Context, guildID discord.GuildID, name string) (Record, error) {
	rs, err := r.load(ctx, guildID)
	if err != nil {
		return Record{}, err
	}

	i := rs.byName(name)
	if i == -1 {
		return Record{}, ErrUnknownLink
	}
	return rs[i], nil
}

// Remove deletes the link named name. The target message is left as-is.
func (r *Registry) Remove(ctx context.Context, guildID discord.GuildID, name string) (Record, error) {
	defer r.lock(guildID)()

	rs, err := r.load(ctx, guildID)
	if err != nil {
		return Record{}, err
	}

	i := rs.byName(name)
	if i == -1 {
		return Record{}, ErrUnknownLink
	}

	return rs[i], r.save(ctx, guildID, rs.without(i))
}

// AddRequest describes one call to Add.
// At most one of Target and Channel may be set. With neither, Origin is appended to the existing link called Name.
type AddRequest struct {
	GuildID discord.GuildID
	Name    string
	Origin  messaging.Ref

	// Target is an existing bot message to attach the new link to.
	Target *messaging.Ref
	// Channel is where a fresh target message is sent.
	Channel discord.ChannelID
}

type AddResult struct {
	Record Record
	// Appended is true if Origin was added to an existing link.
	Appended bool
	// Rendered is false if the combined origins held no directives and the target was left untouched.
	Rendered bool
}

// Add links an origin message. Every check runs before anything is sent, edited or stored,
// and the guild's links are written back in a single Set.
func (r *Registry) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return AddResult{}, ErrEmptyName
	}

	defer r.lock(req.GuildID)()

	rs, err := r.load(ctx, req.GuildID)
	if err != nil {
		return AddResult{}, err
	}

	if rs.byOrigin(req.Origin) != -1 {
		return AddResult{}, ErrDuplicateOrigin
	}

	if req.Target != nil && req.Channel.IsValid() {
		return AddResult{}, ErrAmbiguousTarget
	}

	origin, err := r.gw.Message(ctx, req.Origin.ChannelID, req.Origin.MessageID)
	if err != nil {
		if messaging.IsNotFound(err) {
			return AddResult{}, ErrOriginNotFound
		}
		return AddResult{}, errors.Wrap(err, "fetching origin")
	}

	if req.Target == nil && !req.Channel.IsValid() {
		return r.appendOrigin(ctx, rs, req, origin.Content)
	}
	return r.create(ctx, rs, req, origin.Content)
}

func (r *Registry) appendOrigin(ctx context.Context, rs records, req AddRequest, content string) (AddResult, error) {
	i := rs.byName(req.Name)
	if i == -1 {
		return AddResult{}, ErrUnknownLink
	}
	rec := rs[i]

	contents, err := r.resolve(ctx, rec)
	if err != nil {
		var vErr *VanishedError
		if errors.As(err, &vErr) {
			if err := r.save(ctx, req.GuildID, rs.without(i)); err != nil {
				return AddResult{}, err
			}
			r.healed(req.GuildID, vErr)
		}
		return AddResult{}, err
	}

	rec.Origins = append(append([]messaging.Ref(nil), rec.Origins...), req.Origin)
	rendered, err := r.push(ctx, rec, append(contents, content))
	if err != nil {
		return AddResult{}, err
	}

	rs[i] = rec
	if err := r.save(ctx, req.GuildID, rs); err != nil {
		return AddResult{}, err
	}
	return AddResult{Record: rec, Appended: true, Rendered: rendered}, nil
}

func (r *Registry) create(ctx context.Context, rs records, req AddRequest, content string) (AddResult, error) {
	if rs.byName(req.Name) != -1 {
		return AddResult{}, ErrDuplicateName
	}

	rec := Record{
		Name:    req.Name,
		Origins: []messaging.Ref{req.Origin},
	}

	var (
		rendered bool
		err      error
	)
	if req.Target != nil {
		if rs.byTarget(*req.Target) != -1 {
			return AddResult{}, ErrDuplicateTarget
		}

		if err := r.checkTarget(ctx, *req.Target); err != nil {
			return AddResult{}, err
		}

		rec.TargetChannelID, rec.TargetID = req.Target.ChannelID, req.Target.MessageID
		rendered, err = r.push(ctx, rec, []string{content})
		if err != nil {
			return AddResult{}, err
		}
	} else {
		c, ok := render([]string{content})
		if !ok {
			c = messaging.Content{Text: Placeholder}
		}

		msg, err := r.gw.Send(ctx, req.Channel, c)
		if err != nil {
			return AddResult{}, errors.Wrap(err, "sending target message")
		}
		rec.TargetChannelID, rec.TargetID = msg.ChannelID, msg.ID
		rendered = ok
		if ok {
			r.event("link_render")
		}
	}

	if err := r.save(ctx, req.GuildID, append(rs, rec)); err != nil {
		return AddResult{}, err
	}
	return AddResult{Record: rec, Rendered: rendered}, nil
}

func (r *Registry) checkTarget(ctx context.Context, ref messaging.Ref) error {
	target, err := r.gw.Message(ctx, ref.ChannelID, ref.MessageID)
	if err != nil {
		if messaging.IsNotFound(err) {
			return ErrTargetNotFound
		}
		return errors.Wrap(err, "fetching target")
	}

	me, err := r.gw.Me(ctx)
	if err != nil {
		return err
	}

	if target.Author.ID != me.ID {
		return ErrForeignTarget
	}
	return nil
}

// resolve checks that every channel and message rec depends on still exists,
// and returns the origins' contents in insertion order.
func (r *Registry) resolve(ctx context.Context, rec Record) (contents []string, err error) {
	vanished := func(err error, res Resource, ref messaging.Ref) error {
		if messaging.IsNotFound(err) {
			return &VanishedError{Link: rec.Name, Resource: res, Ref: ref}
		}
		return errors.Wrapf(err, "resolving %v", res)
	}

	target := rec.Target()
	if _, err := r.gw.Channel(ctx, target.ChannelID); err != nil {
		return nil, vanished(err, TargetChannel, target)
	}
	if _, err := r.gw.Message(ctx, target.ChannelID, target.MessageID); err != nil {
		return nil, vanished(err, TargetMessage, target)
	}

	contents = make([]string, 0, len(rec.Origins)+1)
	for _, o := range rec.Origins {
		if _, err := r.gw.Channel(ctx, o.ChannelID); err != nil {
			return nil, vanished(err, OriginChannel, o)
		}

		msg, err := r.gw.Message(ctx, o.ChannelID, o.MessageID)
		if err != nil {
			return nil, vanished(err, OriginMessage, o)
		}
		contents = append(contents, msg.Content)
	}
	return contents, nil
}

func render(contents []string) (messaging.Content, bool) {
	doc := directive.Parse(directive.Join(contents...))
	if doc.Empty() {
		return messaging.Content{}, false
	}

	e := embed.Build(doc)
	return messaging.Content{Embed: &e}, true
}

// push renders contents onto rec's target. It returns false if there was nothing to render.
func (r *Registry) push(ctx context.Context, rec Record, contents []string) (bool, error) {
	c, ok := render(contents)
	if !ok {
		return false, nil
	}

	_, err := r.gw.Edit(ctx, rec.TargetChannelID, rec.TargetID, c)
	if err != nil {
		return false, errors.Wrap(err, "editing target message")
	}

	r.event("link_render")
	return true, nil
}

func (r *Registry) healed(guildID discord.GuildID, vErr *VanishedError) {
	log.Infof("Removed message link %q in %v: %v", vErr.Link, guildID, vErr)
	r.event("link_heal")
}

// OnOriginEdited re-renders the link containing ref, if any.
// If a channel or message of that link has vanished, the link is removed and a *VanishedError returned.
func (r *Registry) OnOriginEdited(ctx context.Context, guildID discord.GuildID, ref messaging.Ref) error {
	rs, err := r.load(ctx, guildID)
	if err != nil {
		return err
	}

	i := rs.byOrigin(ref)
	if i == -1 {
		return nil
	}
	rec := rs[i]

	contents, err := r.resolve(ctx, rec)
	if err != nil {
		var vErr *VanishedError
		if errors.As(err, &vErr) {
			if err := r.removeVanished(ctx, guildID, rec); err != nil {
				return err
			}
			r.healed(guildID, vErr)
		}
		return err
	}

	_, err = r.push(ctx, rec, contents)
	return err
}

// removeVanished deletes rec, unless another call removed it first.
func (r *Registry) removeVanished(ctx context.Context, guildID discord.GuildID, rec Record) error {
	defer r.lock(guildID)()

	rs, err := r.load(ctx, guildID)
	if err != nil {
		return err
	}

	i := rs.byTarget(rec.Target())
	if i == -1 {
		return nil
	}
	return r.save(ctx, guildID, rs.without(i))
}
