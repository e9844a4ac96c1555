package rules

import (
	"fmt"
	"strings"

	"github.com/golem-bot/golem/automod"
	"github.com/golem-bot/golem/automod/helpers"
)

var _ automod.DeleteRuleFunc = SuspiciousDeletionRule

// Classifies a deleted message. Returns the targeted member if the deletion looks like a scam being covered up, or nil if it is normal.
//
// Suspicious means: an untrusted author deleted a recent message which pinged exactly one untrusted member, and no moderator action in the audit log explains the deletion. The audit log is only read once every local check has passed.
func DetectSuspiciousDeletion(c *automod.DeleteContext) (*automod.Member, error) {
	msg := c.Message
	if c.IsTrusted(msg.Author) || msg.System {
		return nil, nil
	}
	if c.Now().Sub(msg.CreatedAt) > c.Config().SuspiciousDeletionWindow {
		return nil, nil
	}
	if len(msg.Mentions) != 1 {
		return nil, nil
	}
	target := msg.Mentions[0]
	if c.IsTrusted(target) {
		return nil, nil
	}

	if c.CorrelatesWithAuditAction() {
		c.Logger.Debug("deletion explained by moderator action")
		return nil, nil
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return &target, nil
}

// Staff-facing summary of a suspicious deletion, followed by the quoted content.
func StaffReport(msg automod.Message, target automod.Member) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Suspicious deletion** in %s\n", helpers.ChannelMention(msg.ChannelID))
	fmt.Fprintf(&sb, "Author: %s (`%s`)\n", helpers.UserMention(msg.Author.ID), msg.Author.Username)
	fmt.Fprintf(&sb, "Target: %s (`%s`)\n", helpers.UserMention(target.ID), target.Username)
	fmt.Fprintf(&sb, "Posted: %s\n", helpers.RelativeTime(msg.CreatedAt))
	sb.WriteString(helpers.QuoteContent(msg.Content))
	return sb.String()
}

// Warns the targeted member publicly, and forwards the deleted content to staff.
func SuspiciousDeletionRule(c *automod.DeleteContext) error {
	target, err := DetectSuspiciousDeletion(c)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}

	c.Logger.Warn("suspicious-deletion", "target", target.ID, "age", c.Now().Sub(c.Message.CreatedAt))
	automod.SuspiciousDeletions.Inc()

	c.SendSafetyNotice(*target, helpers.SafetyNotice(target.ID))
	c.ReportToStaff(StaffReport(c.Message, *target))
	return nil
}
