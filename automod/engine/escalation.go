package engine

import (
	"context"
	"fmt"

	"github.com/golem-bot/golem/automod/flagstore"
)

type EnforcementAction string

var (
	EnforcementTimeout EnforcementAction = "timeout"
	EnforcementKick    EnforcementAction = "kick"
)

// Applies escalating enforcement to an author: a timeout plus a short-lived public warning the first time, a kick for anybody already warned.
//
// Either way the author's last message is dropped, so their next message starts a fresh repost baseline instead of being punished again.
func (eng *Engine) Enforce(ctx context.Context, author Member, guildID, channelID, reason string) (EnforcementAction, error) {
	logger := eng.Logger.With("guild", guildID, "author", author.ID)

	warned, err := flagstore.HasFlag(ctx, eng.Flags, author.ID, FlagRepostWarned)
	if err != nil {
		return "", err
	}

	var action EnforcementAction
	if warned {
		logger.Warn("kicking repeat offender")
		if err := eng.Platform.KickMember(ctx, guildID, author.ID, reason); err != nil {
			return "", fmt.Errorf("kicking member: %w", err)
		}
		action = EnforcementKick
	} else {
		logger.Info("timing out member with warning", "duration", eng.Config.TimeoutDuration)
		if err := eng.Platform.TimeoutMember(ctx, guildID, author.ID, eng.Config.TimeoutDuration, reason); err != nil {
			return "", fmt.Errorf("timing out member: %w", err)
		}
		err := eng.Platform.SendMessage(ctx, channelID, OutgoingMessage{
			Content:      reason,
			MentionUsers: []string{author.ID},
			DeleteAfter:  eng.Config.WarningLifetime,
		})
		if err != nil {
			return "", fmt.Errorf("sending warning: %w", err)
		}
		if err := eng.Flags.Add(ctx, author.ID, []string{FlagRepostWarned}); err != nil {
			return "", err
		}
		action = EnforcementTimeout
	}
	enforcementCount.WithLabelValues(string(action)).Inc()

	if err := eng.LastMessages.Purge(ctx, author.ID); err != nil {
		return "", err
	}
	return action, nil
}
