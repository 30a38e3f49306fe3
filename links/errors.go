package links

import (
	"fmt"

	"emperror.dev/errors"

	"github.com/easysystem/assistant/messaging"
)

// Validation errors. None of these mutate stored state.
const (
	ErrEmptyName       = errors.Sentinel("a message link needs a name")
	ErrDuplicateOrigin = errors.Sentinel("that message is already linked")
	ErrAmbiguousTarget = errors.Sentinel("only one of a target message and a target channel can be given")
	ErrForeignTarget   = errors.Sentinel("the target message was not sent by the bot")
	ErrDuplicateName   = errors.Sentinel("a message link with that name already exists")
	ErrDuplicateTarget = errors.Sentinel("the target message is already linked")
	ErrUnknownLink     = errors.Sentinel("no message link with that name exists")
	ErrOriginNotFound  = errors.Sentinel("the origin message could not be found")
	ErrTargetNotFound  = errors.Sentinel("the target message could not be found")
)

// Resource is a part of a link that can disappear.
type Resource int

const (
	TargetChannel Resource = iota
	TargetMessage
	OriginChannel
	OriginMessage
)

func (r Resource) String() string {
	switch r {
	case TargetChannel:
		return "target channel"
	case TargetMessage:
		return "target message"
	case OriginChannel:
		return "origin channel"
	case OriginMessage:
		return "origin message"
	default:
		return fmt.Sprintf("Resource(%d)", int(r))
	}
}

// VanishedError is returned when a channel or message a link depends on no longer exists.
// The link has already been removed when this is returned.
type VanishedError struct {
	Link     string
	Resource Resource
	Ref      messaging.Ref
}

func (e *VanishedError) Error() string {
	return fmt.Sprintf("the %v of link %q is no longer available", e.Resource, e.Link)
}

// Message is the user-facing explanation.
func (e *VanishedError) Message() string {
	return fmt.Sprintf("The %v is no longer available. Removing the message link.", e.Resource)
}
