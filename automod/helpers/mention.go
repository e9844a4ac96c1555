package helpers

import (
	"fmt"
	"time"
)

func UserMention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

func ChannelMention(channelID string) string {
	return fmt.Sprintf("<#%s>", channelID)
}

// Relative timestamp markup, rendered by the client in the reader's locale ("2 minutes ago").
func RelativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Fixed public warning posted when a message aimed at a member disappears right after being sent.
func SafetyNotice(userID string) string {
	return UserMention(userID) + " heads up: a message mentioning you was deleted by its author shortly after it was posted. " +
		"If someone offered you help, a download, or a \"support ticket\" outside this server, it is very likely a scam. " +
		"Staff will never ask you to log in somewhere or send you a link in private messages."
}
