package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golem-bot/golem/automod/cachestore"
	"github.com/golem-bot/golem/automod/flagstore"
	"github.com/golem-bot/golem/automod/helpers"
	"github.com/golem-bot/golem/automod/setstore"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("automod")

// runtime for executing rules, managing per-author state, and carrying out moderation actions.
//
// All author state lives in the stores referenced here, so a single long-lived Engine owns it. Nothing is persisted across restarts.
//
// NOTE: careful when initializing: several fields should not be null or zero, even though they are pointer or interface type.
type Engine struct {
	Logger   *slog.Logger
	Platform Platform
	Rules    RuleSet
	Config   Config
	// trusted role names, and any other static sets rules want
	Sets setstore.SetStore
	// most recent message per author (repost baseline)
	LastMessages cachestore.CacheStore[Message]
	// authors who already received their one soft warning
	Flags flagstore.FlagStore
	// staff report sink
	Notifier Notifier
	// if set, staff reports are mirrored to this slack incoming webhook
	SlackWebhookURL string
	// used for webhooks; http.DefaultClient if nil
	HTTPClient *http.Client
	// clock override, for tests
	Clock func() time.Time
}

func (eng *Engine) now() time.Time {
	if eng.Clock != nil {
		return eng.Clock()
	}
	return time.Now()
}

// Entry point for a newly created message. Errors are platform I/O failures; callers log them and drop the event.
func (eng *Engine) ProcessMessageCreate(ctx context.Context, msg Message) (err error) {
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("automod event execution exception", "err", r, "message", msg.ID, "author", msg.Author.ID)
			err = fmt.Errorf("rule execution panic: %v", r)
		}
	}()
	ctx, span := tracer.Start(ctx, "ProcessMessageCreate")
	defer span.End()
	span.SetAttributes(attribute.String("guild", msg.GuildID), attribute.String("message", msg.ID))

	eventProcessCount.WithLabelValues("create").Inc()
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
		if err != nil {
			eventErrorCount.WithLabelValues("create").Inc()
		}
	}()

	mc := NewMessageContext(ctx, eng, msg)
	if mc.IsTrusted(msg.Author) || msg.System {
		return nil
	}
	mc.Logger.Debug("processing message")
	if err := eng.Rules.CallMessageRules(&mc); err != nil {
		return err
	}
	if mc.Err != nil {
		return mc.Err
	}
	eng.CanonicalLogLineMessage(&mc)
	return eng.persistMessageEffects(&mc)
}

// Entry point for a deleted message. The message is the last known copy of what was deleted.
func (eng *Engine) ProcessMessageDelete(ctx context.Context, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("automod event execution exception", "err", r, "message", msg.ID, "author", msg.Author.ID)
			err = fmt.Errorf("rule execution panic: %v", r)
		}
	}()
	ctx, span := tracer.Start(ctx, "ProcessMessageDelete")
	defer span.End()
	span.SetAttributes(attribute.String("guild", msg.GuildID), attribute.String("message", msg.ID))

	eventProcessCount.WithLabelValues("delete").Inc()
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
		if err != nil {
			eventErrorCount.WithLabelValues("delete").Inc()
		}
	}()

	dc := NewDeleteContext(ctx, eng, msg)
	dc.Logger.Debug("processing message deletion")
	if err := eng.Rules.CallDeleteRules(&dc); err != nil {
		return err
	}
	if dc.Err != nil {
		return dc.Err
	}
	eng.CanonicalLogLineDelete(&dc)
	return eng.persistDeleteEffects(&dc)
}

// Logs a single line summarizing what the rules decided for a created message.
func (eng *Engine) CanonicalLogLineMessage(c *MessageContext) {
	c.Logger.Info("canonical-event-line",
		"event", "create",
		"contentHash", helpers.HashOfString(c.Message.Content),
		"enforce", c.effects.Enforcement != nil,
	)
}

// Logs a single line summarizing what the rules decided for a deleted message.
func (eng *Engine) CanonicalLogLineDelete(c *DeleteContext) {
	c.Logger.Info("canonical-event-line",
		"event", "delete",
		"contentHash", helpers.HashOfString(c.Message.Content),
		"safetyNotices", len(c.effects.SafetyNotices),
		"staffReports", len(c.effects.StaffReports),
	)
}
