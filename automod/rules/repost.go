package rules

import (
	"fmt"

	"github.com/golem-bot/golem/automod"
	"github.com/golem-bot/golem/automod/helpers"
)

var _ automod.MessageRuleFunc = RepostRule

// Outcome of a positive repost check.
type RepostVerdict struct {
	// The author's earlier message which the current one duplicates
	Previous automod.Message
	// Whether the two messages were posted in different channels
	CrossChannel bool
}

// Compares a new message against the author's previous one. Returns nil if the message is not a repost, in which case it becomes the author's new baseline.
//
// A previous message which can no longer be fetched (deleted by the author or a moderator) never counts, so already cleaned up content does not trigger enforcement.
//
// The read of the author's last message and the later write are deliberately not locked together. Two messages from one author processed at the same moment can both be compared against the same baseline, and one repost may be missed.
func DetectRepost(c *automod.MessageContext) (*RepostVerdict, error) {
	cfg := c.Config()
	prev := c.LastMessage(c.Message.Author.ID)
	if c.Err != nil {
		return nil, c.Err
	}

	if prev == nil ||
		helpers.Similarity(c.Message.Content, prev.Content) <= cfg.SimilarityThreshold ||
		c.Message.CreatedAt.Sub(prev.CreatedAt) >= cfg.RepostWindow {
		c.SetLastMessage(c.Message)
		return nil, c.Err
	}

	live := c.IsLive(*prev)
	if c.Err != nil {
		// platform error; leave the baseline alone
		return nil, c.Err
	}
	if !live {
		c.Logger.Debug("previous message already removed", "previous", prev.ID)
		c.SetLastMessage(c.Message)
		return nil, c.Err
	}

	return &RepostVerdict{
		Previous:     *prev,
		CrossChannel: prev.ChannelID != c.Message.ChannelID,
	}, nil
}

// Reason text shown to the author (and attached to the moderation action) for a repost.
func RepostReason(authorID string, crossChannel bool, rulesChannelID string) string {
	if !crossChannel {
		return fmt.Sprintf("%s don't post the same message twice in a short period of time", helpers.UserMention(authorID))
	}
	reason := fmt.Sprintf("%s don't post the same message in two channels.", helpers.UserMention(authorID))
	if rulesChannelID != "" {
		reason += fmt.Sprintf(" Read %s to find where your message should be posted", helpers.ChannelMention(rulesChannelID))
	}
	return reason
}

// Enforces against members who post the same text twice in a short window, in the same or a different channel.
func RepostRule(c *automod.MessageContext) error {
	verdict, err := DetectRepost(c)
	if err != nil {
		return err
	}
	if verdict == nil {
		return nil
	}

	kind := "same-channel"
	if verdict.CrossChannel {
		kind = "cross-channel"
	}
	c.Logger.Info("repost-detected", "kind", kind, "previous", verdict.Previous.ID, "previousChannel", verdict.Previous.ChannelID)
	automod.RepostsDetected.WithLabelValues(kind).Inc()

	c.Enforce(RepostReason(c.Message.Author.ID, verdict.CrossChannel, c.Config().RulesChannelID), verdict.Previous)
	return nil
}
