package engine

import (
	"context"
	"errors"
	"time"
)

var (
	// Returned by a Platform when the referenced message (or member) no longer exists.
	ErrNotFound = errors.New("not found on platform")
	// Returned by a Platform when the bot lacks permission for a read, such as the audit log.
	ErrPermissionDenied = errors.New("permission denied by platform")
)

// Snapshot of a server member, taken by the platform client at event time. Role membership can change between events, so this is never cached by the engine.
type Member struct {
	ID        string
	Username  string
	RoleNames []string
}

// Immutable
type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	Author    Member
	Content   string
	CreatedAt time.Time
	// Members mentioned in the message, in order, without duplicates
	Mentions []Member
	// Platform-generated messages (joins, pins, boosts, etc)
	System bool
}

type AuditAction string

var (
	AuditActionBan           AuditAction = "ban"
	AuditActionMessageDelete AuditAction = "message-delete"
	AuditActionKick          AuditAction = "kick"
	AuditActionMemberTimeout AuditAction = "member-timeout"
	AuditActionOther         AuditAction = "other"
)

// Simplified audit log entry, as tracked by the engine
type AuditEntry struct {
	Action    AuditAction
	TargetID  string
	CreatedAt time.Time
}

// Per-send display options for a message posted by the bot. By default nobody is pinged.
type OutgoingMessage struct {
	Content string
	// Only these users may be pinged by the message
	MentionUsers []string
	// If non-zero, the message is removed again after this long
	DeleteAfter time.Duration
	// Disables link previews
	SuppressEmbeds bool
}

// Actions and lookups the engine needs from the chat platform client.
//
// Implementations return ErrNotFound and ErrPermissionDenied (possibly wrapped) for those conditions; any other error is treated as an I/O failure and propagated.
type Platform interface {
	// Identity of the bot account itself
	BotUserID() string
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	TimeoutMember(ctx context.Context, guildID, userID string, d time.Duration, reason string) error
	KickMember(ctx context.Context, guildID, userID, reason string) error
	SendMessage(ctx context.Context, channelID string, msg OutgoingMessage) error
	// Resolves a text channel by name within a guild. ok is false if there is no such channel.
	FindChannel(ctx context.Context, guildID, name string) (channelID string, ok bool, err error)
	// Audit log entries for the guild created after "since", in no particular order.
	AuditLog(ctx context.Context, guildID string, since time.Time) ([]AuditEntry, error)
}
