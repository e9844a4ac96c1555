package engine

// Holds configuration of which rules of various types should be run, and helps dispatch events to those rules.
type RuleSet struct {
	MessageRules []MessageRuleFunc
	DeleteRules  []DeleteRuleFunc
}

// Executes rules for newly created messages. Only dispatches execution, does no other de-dupe or pre/post processing.
func (r *RuleSet) CallMessageRules(c *MessageContext) error {
	for _, f := range r.MessageRules {
		err := f(c)
		if err != nil {
			return err
		}
	}
	return nil
}

// Executes rules for deleted messages.
func (r *RuleSet) CallDeleteRules(c *DeleteContext) error {
	for _, f := range r.DeleteRules {
		err := f(c)
		if err != nil {
			return err
		}
	}
	return nil
}
