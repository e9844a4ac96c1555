// Auto-moderation rules engine for Discord guilds.
//
// This package (`github.com/golem-bot/golem/automod`) watches the message stream of a guild and acts on two patterns. A member who posts (nearly) the same text twice within a short window gets their messages removed and a timeout, and is kicked if they do it again after that warning. A message which pings exactly one member and is deleted by its own author shortly afterwards (the usual shape of a "DM me for support" scam) results in a public safety notice to the targeted member and a quoted copy for staff, unless the guild audit log shows a moderator already dealt with it.
//
// The engine itself lives in `automod/engine`, the detection rules in `automod/rules`, and the Discord client binding in `automod/platform`. See `cmd/golem` for a daemon built on this package.
package automod
