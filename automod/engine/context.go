package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golem-bot/golem/automod/flagstore"
)

// Flag recorded on an author once they have received the soft repost warning
var FlagRepostWarned = "repost-warned"

// The primary interface exposed to rules. All other contexts derive from this "base" struct.
type BaseContext struct {
	// Actual golang "context.Context", if needed for timeouts etc
	Ctx context.Context
	// Any errors encountered while processing methods on this struct (or sub-types) get rolled up in this nullable field
	Err error
	// slog logger handle, with event-specific structured fields pre-populated. Pointer, but expected to never be nil.
	Logger *slog.Logger

	engine  *Engine // NOTE: pointer, but expected never to be nil
	effects *Effects
}

// A message that was just posted.
type MessageContext struct {
	BaseContext

	Message Message
}

// A message that was just deleted. Message is the last known copy of it.
type DeleteContext struct {
	BaseContext

	Message Message
}

func newBaseContext(ctx context.Context, eng *Engine, msg Message) BaseContext {
	return BaseContext{
		Ctx:     ctx,
		Err:     nil,
		Logger:  eng.Logger.With("guild", msg.GuildID, "channel", msg.ChannelID, "author", msg.Author.ID, "message", msg.ID),
		engine:  eng,
		effects: &Effects{},
	}
}

func NewMessageContext(ctx context.Context, eng *Engine, msg Message) MessageContext {
	return MessageContext{
		BaseContext: newBaseContext(ctx, eng, msg),
		Message:     msg,
	}
}

func NewDeleteContext(ctx context.Context, eng *Engine, msg Message) DeleteContext {
	return DeleteContext{
		BaseContext: newBaseContext(ctx, eng, msg),
		Message:     msg,
	}
}

func (c *BaseContext) setErr(err error) {
	if nil == c.Err {
		c.Err = err
	}
}

// Static moderation policy of the engine
func (c *BaseContext) Config() Config {
	return c.engine.Config
}

// Platform client of the engine. Rules use this for lookups; actions should go through effects.
func (c *BaseContext) Platform() Platform {
	return c.engine.Platform
}

// Engine clock (wall time, unless overridden in tests)
func (c *BaseContext) Now() time.Time {
	return c.engine.now()
}

func (c *BaseContext) InSet(name, val string) bool {
	out, err := c.engine.Sets.InSet(c.Ctx, name, val)
	if err != nil {
		c.setErr(err)
		return false
	}
	return out
}

func (c *BaseContext) IsTrusted(m Member) bool {
	return c.engine.IsTrusted(c.Ctx, m)
}

// Checks whether the author was already given their one soft warning.
func (c *BaseContext) WasWarned(authorID string) bool {
	ok, err := flagstore.HasFlag(c.Ctx, c.engine.Flags, authorID, FlagRepostWarned)
	if err != nil {
		c.setErr(err)
		return false
	}
	return ok
}

// Returns the last message recorded for the author, or nil.
func (c *BaseContext) LastMessage(authorID string) *Message {
	prev, ok, err := c.engine.LastMessages.Get(c.Ctx, authorID)
	if err != nil {
		c.setErr(err)
		return nil
	}
	if !ok {
		return nil
	}
	return &prev
}

// Records msg as the author's last message, replacing any previous one.
func (c *BaseContext) SetLastMessage(msg Message) {
	if err := c.engine.LastMessages.Set(c.Ctx, msg.Author.ID, msg); err != nil {
		c.setErr(err)
	}
}

// Checks that a message can still be fetched from its channel. A message which was already removed (by anybody) is not live.
func (c *BaseContext) IsLive(msg Message) bool {
	_, err := c.engine.Platform.FetchMessage(c.Ctx, msg.ChannelID, msg.ID)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		c.setErr(err)
		return false
	}
	return true
}

func (c *DeleteContext) CorrelatesWithAuditAction() bool {
	ok, err := c.engine.CorrelatesWithAuditAction(c.Ctx, c.Message)
	if err != nil {
		c.setErr(err)
		return false
	}
	return ok
}

// Returns a pointer to the underlying automod engine. This usually should NOT be used in rules.
func (c *BaseContext) InternalEngine() *Engine {
	return c.engine
}

// update effects (indirect) ======

func (c *MessageContext) Enforce(reason string, previous Message) {
	c.effects.Enforce(reason, previous)
}

func (c *DeleteContext) SendSafetyNotice(target Member, text string) {
	c.effects.SendSafetyNotice(c.Message.ChannelID, target, text)
}

func (c *DeleteContext) ReportToStaff(text string) {
	c.effects.ReportToStaff(text)
}
