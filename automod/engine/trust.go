package engine

import (
	"context"
)

// Trusted actors are exempt from moderation: the bot itself, and any member holding one of the configured trusted roles.
//
// Depends only on the member snapshot passed in and on static configuration. Lookup errors count as "not trusted".
func (eng *Engine) IsTrusted(ctx context.Context, m Member) bool {
	if m.ID != "" && m.ID == eng.Platform.BotUserID() {
		return true
	}
	for _, role := range m.RoleNames {
		ok, err := eng.Sets.InSet(ctx, eng.Config.TrustedRolesSet, role)
		if err != nil {
			eng.Logger.Warn("trusted role lookup failed", "err", err, "role", role)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
