package engine

import (
	"context"
	"errors"
	"fmt"
)

// Moderation actions which also remove a member's messages, or which the bot itself issues. Deletions explained by one of these are not suspicious.
var correlatedAuditActions = map[AuditAction]bool{
	AuditActionBan:           true,
	AuditActionMessageDelete: true,
	AuditActionKick:          true,
	AuditActionMemberTimeout: true,
}

// Checks the guild audit log for a recent moderation action against the author of a deleted message.
//
// Fails closed: if the bot may not read the audit log, this returns false without error. Coverage is reduced in that case (some moderator deletions will be reported), but nothing real is suppressed.
func (eng *Engine) CorrelatesWithAuditAction(ctx context.Context, msg Message) (bool, error) {
	if msg.GuildID == "" {
		return false, nil
	}
	since := eng.now().Add(-eng.Config.AuditWindow)
	entries, err := eng.Platform.AuditLog(ctx, msg.GuildID, since)
	if errors.Is(err, ErrPermissionDenied) {
		eng.Logger.Debug("no permission to read audit log", "guild", msg.GuildID)
		auditCheckCount.WithLabelValues("no-permission").Inc()
		return false, nil
	}
	if err != nil {
		auditCheckCount.WithLabelValues("error").Inc()
		return false, fmt.Errorf("reading audit log: %w", err)
	}
	for _, ent := range entries {
		if !ent.CreatedAt.After(since) {
			continue
		}
		if correlatedAuditActions[ent.Action] && ent.TargetID == msg.Author.ID {
			auditCheckCount.WithLabelValues("match").Inc()
			return true, nil
		}
	}
	auditCheckCount.WithLabelValues("no-match").Inc()
	return false, nil
}
