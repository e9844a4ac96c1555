package engine

import (
	"context"
	"fmt"
)

// Interface for a type that can deliver reports to server staff
type Notifier interface {
	Report(ctx context.Context, guildID, text string) error
}

// Posts reports to a staff text channel, resolved by name in each guild.
//
// If the guild has no such channel, reports are silently dropped.
type StaffChannelNotifier struct {
	Platform    Platform
	ChannelName string
}

var _ Notifier = (*StaffChannelNotifier)(nil)

func (n *StaffChannelNotifier) Report(ctx context.Context, guildID, text string) error {
	channelID, ok, err := n.Platform.FindChannel(ctx, guildID, n.ChannelName)
	if err != nil {
		return fmt.Errorf("resolving staff channel: %w", err)
	}
	if !ok {
		return nil
	}
	err = n.Platform.SendMessage(ctx, channelID, OutgoingMessage{
		Content:        text,
		SuppressEmbeds: true,
	})
	if err != nil {
		return err
	}
	staffReportCount.Inc()
	return nil
}
