package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golem-bot/golem/automod/cachestore"
	"github.com/golem-bot/golem/automod/flagstore"
	"github.com/golem-bot/golem/automod/setstore"
)

type SentMessage struct {
	ChannelID string
	Message   OutgoingMessage
}

type MemberAction struct {
	GuildID  string
	UserID   string
	Duration time.Duration
	Reason   string
}

// In-memory Platform for tests. Holds "live" messages and channels, and records every action taken against it.
type MockPlatform struct {
	mu sync.Mutex

	BotID string
	// live messages, keyed by channel and message ID
	Messages map[string]Message
	// guild ID -> channel name -> channel ID
	Channels map[string]map[string]string
	Audit    []AuditEntry
	// if true, AuditLog returns ErrPermissionDenied
	AuditDenied bool

	Sent     []SentMessage
	Deleted  []string
	Timeouts []MemberAction
	Kicks    []MemberAction
}

var _ Platform = (*MockPlatform)(nil)

func NewMockPlatform() *MockPlatform {
	return &MockPlatform{
		BotID:    "bot000",
		Messages: make(map[string]Message),
		Channels: make(map[string]map[string]string),
	}
}

func messageKey(channelID, messageID string) string {
	return channelID + "/" + messageID
}

// Makes a message fetchable, as if it had just been posted.
func (p *MockPlatform) Post(msg Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages[messageKey(msg.ChannelID, msg.ID)] = msg
}

func (p *MockPlatform) AddChannel(guildID, name, channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Channels[guildID] == nil {
		p.Channels[guildID] = make(map[string]string)
	}
	p.Channels[guildID][name] = channelID
}

func (p *MockPlatform) BotUserID() string {
	return p.BotID
}

func (p *MockPlatform) FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg, ok := p.Messages[messageKey(channelID, messageID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &msg, nil
}

func (p *MockPlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := messageKey(channelID, messageID)
	if _, ok := p.Messages[k]; !ok {
		return ErrNotFound
	}
	delete(p.Messages, k)
	p.Deleted = append(p.Deleted, k)
	return nil
}

func (p *MockPlatform) TimeoutMember(ctx context.Context, guildID, userID string, d time.Duration, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Timeouts = append(p.Timeouts, MemberAction{GuildID: guildID, UserID: userID, Duration: d, Reason: reason})
	return nil
}

func (p *MockPlatform) KickMember(ctx context.Context, guildID, userID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Kicks = append(p.Kicks, MemberAction{GuildID: guildID, UserID: userID, Reason: reason})
	return nil
}

func (p *MockPlatform) SendMessage(ctx context.Context, channelID string, msg OutgoingMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Sent = append(p.Sent, SentMessage{ChannelID: channelID, Message: msg})
	return nil
}

func (p *MockPlatform) FindChannel(ctx context.Context, guildID, name string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.Channels[guildID][name]
	return id, ok, nil
}

func (p *MockPlatform) AuditLog(ctx context.Context, guildID string, since time.Time) ([]AuditEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.AuditDenied {
		return nil, ErrPermissionDenied
	}
	var out []AuditEntry
	for _, ent := range p.Audit {
		if ent.CreatedAt.After(since) {
			out = append(out, ent)
		}
	}
	return out, nil
}

// Engine wired to in-memory stores and a MockPlatform, with no rules configured. Intentionally exported, for use in other packages.
func EngineTestFixture() (Engine, *MockPlatform) {
	mp := NewMockPlatform()
	config := DefaultConfig()
	sets := setstore.NewMemSetStore()
	sets.Insert(config.TrustedRolesSet, DefaultTrustedRoles...)
	engine := Engine{
		Logger:       slog.Default(),
		Platform:     mp,
		Config:       config,
		Sets:         sets,
		LastMessages: cachestore.NewMemCacheStore[Message](1000, config.RepostWindow),
		Flags:        flagstore.NewMemFlagStore(),
		Notifier: &StaffChannelNotifier{
			Platform:    mp,
			ChannelName: config.StaffChannelName,
		},
	}
	return engine, mp
}

// Helper to access the private effects field from a context. Intended for use in test code, *not* from rules.
func ExtractEffects(c *BaseContext) Effects {
	return *c.effects
}
