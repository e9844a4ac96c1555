package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golem-bot/golem/automod/engine"

	"github.com/bwmarrin/discordgo"
)

// Max entries per audit log page; only the first page is read, which comfortably covers the correlation window
var auditLogPageSize = 100

// Platform implementation backed by a discordgo session. The session's state cache must be enabled: it is used to resolve role names, channels, and the bot's own identity.
type DiscordPlatform struct {
	Session *discordgo.Session
	Logger  *slog.Logger
}

var _ engine.Platform = (*DiscordPlatform)(nil)

func NewDiscordPlatform(s *discordgo.Session, logger *slog.Logger) *DiscordPlatform {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordPlatform{
		Session: s,
		Logger:  logger.With("component", "discord"),
	}
}

// Maps REST errors to the engine's error kinds.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", engine.ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", engine.ErrPermissionDenied, err)
		}
	}
	return err
}

func (p *DiscordPlatform) BotUserID() string {
	if p.Session.State == nil || p.Session.State.User == nil {
		return ""
	}
	return p.Session.State.User.ID
}

func (p *DiscordPlatform) FetchMessage(ctx context.Context, channelID, messageID string) (*engine.Message, error) {
	m, err := p.Session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, convertError(err)
	}
	// REST fetches omit the guild ID, so roles are left unresolved
	msg := p.ConvertMessage(ctx, m)
	return &msg, nil
}

func (p *DiscordPlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return convertError(p.Session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

func (p *DiscordPlatform) TimeoutMember(ctx context.Context, guildID, userID string, d time.Duration, reason string) error {
	until := time.Now().Add(d)
	err := p.Session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return convertError(err)
}

func (p *DiscordPlatform) KickMember(ctx context.Context, guildID, userID, reason string) error {
	return convertError(p.Session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

// Only the users listed may be pinged; an empty list pings nobody.
func allowedMentions(users []string) *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{
		Parse: []discordgo.AllowedMentionType{},
		Users: users,
	}
}

func messageSend(msg engine.OutgoingMessage) *discordgo.MessageSend {
	data := &discordgo.MessageSend{
		Content:         msg.Content,
		AllowedMentions: allowedMentions(msg.MentionUsers),
	}
	if msg.SuppressEmbeds {
		data.Flags = discordgo.MessageFlagsSuppressEmbeds
	}
	return data
}

func (p *DiscordPlatform) SendMessage(ctx context.Context, channelID string, msg engine.OutgoingMessage) error {
	sent, err := p.Session.ChannelMessageSendComplex(channelID, messageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return convertError(err)
	}
	if msg.DeleteAfter > 0 {
		time.AfterFunc(msg.DeleteAfter, func() {
			if err := p.Session.ChannelMessageDelete(channelID, sent.ID); err != nil {
				p.Logger.Warn("failed to remove expired message", "channel", channelID, "message", sent.ID, "err", err)
			}
		})
	}
	return nil
}

func (p *DiscordPlatform) FindChannel(ctx context.Context, guildID, name string) (string, bool, error) {
	var channels []*discordgo.Channel
	if g, err := p.Session.State.Guild(guildID); err == nil {
		channels = g.Channels
	} else {
		channels, err = p.Session.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return "", false, convertError(err)
		}
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
			return ch.ID, true, nil
		}
	}
	return "", false, nil
}

func auditAction(t *discordgo.AuditLogAction) engine.AuditAction {
	if t == nil {
		return engine.AuditActionOther
	}
	switch *t {
	case discordgo.AuditLogActionMemberBanAdd:
		return engine.AuditActionBan
	case discordgo.AuditLogActionMessageDelete:
		return engine.AuditActionMessageDelete
	case discordgo.AuditLogActionMemberKick:
		return engine.AuditActionKick
	case discordgo.AuditLogActionMemberUpdate:
		// timeouts are recorded as member updates
		return engine.AuditActionMemberTimeout
	default:
		return engine.AuditActionOther
	}
}

func convertAuditLog(log *discordgo.GuildAuditLog, since time.Time) []engine.AuditEntry {
	var out []engine.AuditEntry
	for _, ent := range log.AuditLogEntries {
		createdAt, err := discordgo.SnowflakeTimestamp(ent.ID)
		if err != nil || !createdAt.After(since) {
			continue
		}
		out = append(out, engine.AuditEntry{
			Action:    auditAction(ent.ActionType),
			TargetID:  ent.TargetID,
			CreatedAt: createdAt,
		})
	}
	return out
}

func (p *DiscordPlatform) AuditLog(ctx context.Context, guildID string, since time.Time) ([]engine.AuditEntry, error) {
	log, err := p.Session.GuildAuditLog(guildID, "", "", 0, auditLogPageSize, discordgo.WithContext(ctx))
	if err != nil {
		return nil, convertError(err)
	}
	return convertAuditLog(log, since), nil
}

// Joins, pins, boosts and the like; anything not written by a member.
func isSystemMessage(t discordgo.MessageType) bool {
	switch t {
	case discordgo.MessageTypeDefault, discordgo.MessageTypeReply, discordgo.MessageTypeChatInputCommand, discordgo.MessageTypeContextMenuCommand:
		return false
	default:
		return true
	}
}

func (p *DiscordPlatform) roleNames(guildID string, roleIDs []string) []string {
	var names []string
	for _, rid := range roleIDs {
		role, err := p.Session.State.Role(guildID, rid)
		if err != nil {
			p.Logger.Debug("unknown role", "guild", guildID, "role", rid, "err", err)
			continue
		}
		names = append(names, role.Name)
	}
	return names
}

// Resolves the guild roles of a user, from the state cache or else the API. A member who left the guild has no roles.
func (p *DiscordPlatform) memberRoles(ctx context.Context, guildID, userID string) []string {
	if m, err := p.Session.State.Member(guildID, userID); err == nil {
		return m.Roles
	}
	m, err := p.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		p.Logger.Debug("member lookup failed", "guild", guildID, "user", userID, "err", err)
		return nil
	}
	return m.Roles
}

func (p *DiscordPlatform) convertMember(ctx context.Context, guildID string, u *discordgo.User, roleIDs []string, known bool) engine.Member {
	m := engine.Member{
		ID:       u.ID,
		Username: u.Username,
	}
	if guildID == "" {
		return m
	}
	if !known {
		roleIDs = p.memberRoles(ctx, guildID, u.ID)
	}
	m.RoleNames = p.roleNames(guildID, roleIDs)
	return m
}

// Snapshots a discordgo message, resolving the role names of its author and mentioned members as of now.
func (p *DiscordPlatform) ConvertMessage(ctx context.Context, m *discordgo.Message) engine.Message {
	msg := engine.Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		CreatedAt: m.Timestamp,
		System:    isSystemMessage(m.Type),
	}
	if m.Author != nil {
		if m.Member != nil {
			msg.Author = p.convertMember(ctx, m.GuildID, m.Author, m.Member.Roles, true)
		} else {
			msg.Author = p.convertMember(ctx, m.GuildID, m.Author, nil, false)
		}
	}
	seen := make(map[string]bool)
	for _, u := range m.Mentions {
		if u == nil || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		msg.Mentions = append(msg.Mentions, p.convertMember(ctx, m.GuildID, u, nil, false))
	}
	return msg
}
