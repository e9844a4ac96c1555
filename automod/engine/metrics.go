package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "golem_event_duration_sec",
	Help: "Total duration of automod event processing",
}, []string{"type"})

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "golem_event_processed",
	Help: "Number of events processed",
}, []string{"type"})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "golem_event_errors",
	Help: "Number of events which failed processing",
}, []string{"type"})

var enforcementCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "golem_enforcements",
	Help: "Number of repost enforcement actions, by action",
}, []string{"action"})

var auditCheckCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "golem_audit_checks",
	Help: "Number of audit log correlation checks, by outcome",
}, []string{"result"})

var staffReportCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "golem_staff_reports",
	Help: "Number of reports sent to the staff channel",
})

// Exported for rules, which do the detection
var RepostsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "golem_reposts_detected",
	Help: "Number of reposts detected, by kind",
}, []string{"kind"})

var SuspiciousDeletions = promauto.NewCounter(prometheus.CounterOpts{
	Name: "golem_suspicious_deletions",
	Help: "Number of deletions classified as suspicious",
})
