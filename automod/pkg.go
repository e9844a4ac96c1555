package automod

import (
	"github.com/golem-bot/golem/automod/engine"
)

type Engine = engine.Engine
type Config = engine.Config
type RuleSet = engine.RuleSet
type Platform = engine.Platform
type Notifier = engine.Notifier
type StaffChannelNotifier = engine.StaffChannelNotifier

type Message = engine.Message
type Member = engine.Member
type AuditEntry = engine.AuditEntry
type OutgoingMessage = engine.OutgoingMessage

type MessageContext = engine.MessageContext
type DeleteContext = engine.DeleteContext

type MessageRuleFunc = engine.MessageRuleFunc
type DeleteRuleFunc = engine.DeleteRuleFunc

var (
	ErrNotFound         = engine.ErrNotFound
	ErrPermissionDenied = engine.ErrPermissionDenied

	RepostsDetected     = engine.RepostsDetected
	SuspiciousDeletions = engine.SuspiciousDeletions
)

func DefaultConfig() Config {
	return engine.DefaultConfig()
}
