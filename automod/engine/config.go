package engine

import (
	"time"
)

// Static moderation policy, loaded once at startup.
type Config struct {
	// Name of the set (in the engine's SetStore) holding trusted role names
	TrustedRolesSet string
	// Name of the staff text channel which receives reports
	StaffChannelName string
	// Optional channel pointed to when a member cross-posts
	RulesChannelID string

	// A message is a repost if its similarity to the author's previous message is strictly above this ratio
	SimilarityThreshold float64
	// ... and it was sent less than this long after the previous message
	RepostWindow time.Duration
	// Length of the timeout on a first offense
	TimeoutDuration time.Duration
	// How long the public warning stays up
	WarningLifetime time.Duration
	// Deletions of messages older than this are never suspicious
	SuspiciousDeletionWindow time.Duration
	// How far back the audit log is searched for an explaining moderation action
	AuditWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		TrustedRolesSet:          "trusted-roles",
		StaffChannelName:         "golem-log",
		SimilarityThreshold:      0.9,
		RepostWindow:             20 * time.Minute,
		TimeoutDuration:          1 * time.Minute,
		WarningLifetime:          20 * time.Second,
		SuspiciousDeletionWindow: 5 * time.Minute,
		AuditWindow:              2 * time.Minute,
	}
}

// Role names trusted when no sets file is configured
var DefaultTrustedRoles = []string{"Hero", "Jedi", "Parsec Team"}
