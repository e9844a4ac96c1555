package engine

type MessageRuleFunc = func(c *MessageContext) error
type DeleteRuleFunc = func(c *DeleteContext) error
