package engine

// Repost enforcement requested by a rule. The current message is always the one being processed.
type Enforcement struct {
	// Text shown to the author, and attached to the timeout or kick for audit visibility
	Reason string
	// The earlier message this one duplicates. Deleted along with the current message.
	Previous Message
}

// Public notice to a member, posted in a channel and pinging only that member.
type SafetyNotice struct {
	ChannelID string
	Target    Member
	Text      string
}

// Mutable container for all the possible side-effects from rule execution.
//
// Effects are collected while rules run and carried out together afterwards, so a rule which errors out part way does not leave half of its actions applied.
type Effects struct {
	// At most one enforcement per message; a second request replaces the first.
	Enforcement *Enforcement
	// Public notices to post, in order
	SafetyNotices []SafetyNotice
	// Text to forward to the staff channel, in order
	StaffReports []string
}

// Enqueues escalating enforcement (timeout, or kick for repeat offenders) against the author of the current message.
func (e *Effects) Enforce(reason string, previous Message) {
	e.Enforcement = &Enforcement{Reason: reason, Previous: previous}
}

func (e *Effects) SendSafetyNotice(channelID string, target Member, text string) {
	e.SafetyNotices = append(e.SafetyNotices, SafetyNotice{ChannelID: channelID, Target: target, Text: text})
}

func (e *Effects) ReportToStaff(text string) {
	e.StaffReports = append(e.StaffReports, text)
}
