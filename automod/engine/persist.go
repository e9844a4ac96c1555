package engine

import (
	"context"
	"errors"
	"fmt"
)

// Carries out the enforcement requested for a created message: escalate against the author, then remove both the repost and the original.
//
// No step is retried. A repeated kick or timeout is worse than a missed one, so an I/O error just aborts the remaining steps.
func (eng *Engine) persistMessageEffects(c *MessageContext) error {
	ctx := c.Ctx
	enf := c.effects.Enforcement
	if enf == nil {
		return nil
	}
	msg := c.Message

	action, err := eng.Enforce(ctx, msg.Author, msg.GuildID, msg.ChannelID, enf.Reason)
	if err != nil {
		return err
	}
	c.Logger.Info("enforced repost policy", "action", action, "previous", enf.Previous.ID)

	if err := eng.deleteIfPresent(ctx, msg.ChannelID, msg.ID); err != nil {
		return err
	}
	if err := eng.deleteIfPresent(ctx, enf.Previous.ChannelID, enf.Previous.ID); err != nil {
		return err
	}
	// Enforce already did this; harmless to repeat
	return eng.LastMessages.Purge(ctx, msg.Author.ID)
}

func (eng *Engine) deleteIfPresent(ctx context.Context, channelID, messageID string) error {
	err := eng.Platform.DeleteMessage(ctx, channelID, messageID)
	if errors.Is(err, ErrNotFound) {
		eng.Logger.Debug("message already removed", "channel", channelID, "message", messageID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	return nil
}

// Posts the public safety notices and staff reports requested for a deleted message.
func (eng *Engine) persistDeleteEffects(c *DeleteContext) error {
	ctx := c.Ctx
	for _, sn := range c.effects.SafetyNotices {
		err := eng.Platform.SendMessage(ctx, sn.ChannelID, OutgoingMessage{
			Content:      sn.Text,
			MentionUsers: []string{sn.Target.ID},
		})
		if err != nil {
			return fmt.Errorf("sending safety notice: %w", err)
		}
	}
	for _, text := range c.effects.StaffReports {
		if err := eng.Notifier.Report(ctx, c.Message.GuildID, text); err != nil {
			return fmt.Errorf("reporting to staff: %w", err)
		}
		if eng.SlackWebhookURL != "" {
			if err := eng.SendSlackMsg(ctx, text); err != nil {
				c.Logger.Error("sending slack webhook", "err", err)
			}
		}
	}
	return nil
}
