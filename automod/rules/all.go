package rules

import (
	"github.com/golem-bot/golem/automod"
)

func DefaultRules() automod.RuleSet {
	rules := automod.RuleSet{
		MessageRules: []automod.MessageRuleFunc{
			RepostRule,
		},
		DeleteRules: []automod.DeleteRuleFunc{
			SuspiciousDeletionRule,
		},
	}
	return rules
}
