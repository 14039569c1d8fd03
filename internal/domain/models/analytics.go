package models

import (
	"time"
)

// LogStats tallies entry statuses across a log snapshot. Deleted counts
// entries whose action type is delete or deletePermanently, regardless of
// status.
type LogStats struct {
	Success int `json:"success"`
	Error   int `json:"error"`
	Skipped int `json:"skipped"`
	Deleted int `json:"deleted"`
}

// ActivityBucket is one column of the throughput histogram. Percent is the
// count normalized to the largest bucket (0-100).
type ActivityBucket struct {
	Start   time.Time `json:"start"`
	Count   int       `json:"count"`
	Percent int       `json:"percent"`
}

// RuleHealth is the per-rule activity summary. LastActivityAt looks at the
// whole log; RecentEvents and RecentErrors are restricted to a trailing
// 24-hour window from wall-clock now.
type RuleHealth struct {
	RuleID         string    `json:"rule_id"`
	LastActivityAt time.Time `json:"last_activity_at"`
	RecentEvents   int       `json:"recent_events"`
	RecentErrors   int       `json:"recent_errors"`
}

// ActivityReport bundles everything the dashboard reads in one response.
type ActivityReport struct {
	Stats     LogStats         `json:"stats"`
	Histogram []ActivityBucket `json:"histogram"`
	Rules     []RuleHealth     `json:"rules"`
}
