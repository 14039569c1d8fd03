package service

import (
	"context"
	"sort"
	"time"

	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
	"sortd/internal/domain/services"
)

const (
	histogramBuckets = 10
	bucketWidth      = time.Hour
	healthWindow     = 24 * time.Hour
)

type analyticsService struct {
	logRepo repositories.LogRepository
	clock   services.Clock
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(logRepo repositories.LogRepository, clock services.Clock) services.AnalyticsService {
	return &analyticsService{
		logRepo: logRepo,
		clock:   clock,
	}
}

// Report recomputes everything from the current log snapshot. Nothing is
// persisted between calls.
func (s *analyticsService) Report(ctx context.Context) (*models.ActivityReport, error) {
	entries, err := s.logRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.ActivityReport{
		Stats:     countStatuses(entries),
		Histogram: buildHistogram(entries),
		Rules:     ruleHealth(entries, s.clock.Now()),
	}
	return report, nil
}

func countStatuses(entries []models.LogEntry) models.LogStats {
	var stats models.LogStats
	for _, e := range entries {
		switch e.Status {
		case models.StatusSuccess:
			stats.Success++
		case models.StatusError:
			stats.Error++
		case models.StatusSkipped:
			stats.Skipped++
		}
		if e.ActionType == models.ActionDelete || e.ActionType == models.ActionDeletePermanently {
			stats.Deleted++
		}
	}
	return stats
}

// buildHistogram buckets entries into histogramBuckets fixed-width columns
// anchored at the latest entry's timestamp. Bucket 0 is the oldest column;
// the last bucket holds the most recent width of activity. An entry exactly
// the full window in the past still belongs to bucket 0.
func buildHistogram(entries []models.LogEntry) []models.ActivityBucket {
	buckets := make([]models.ActivityBucket, histogramBuckets)

	var latest time.Time
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		if e.CreatedAt.After(latest) {
			latest = e.CreatedAt
		}
	}

	window := time.Duration(histogramBuckets) * bucketWidth
	for i := range buckets {
		buckets[i].Start = latest.Add(-window + time.Duration(i)*bucketWidth)
	}
	if latest.IsZero() {
		return buckets
	}

	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		diff := latest.Sub(e.CreatedAt)
		if diff < 0 || diff > window {
			continue
		}
		idx := histogramBuckets - 1 - int(diff/bucketWidth)
		if idx < 0 {
			idx = 0
		}
		buckets[idx].Count++
	}

	max := 1
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	for i := range buckets {
		buckets[i].Percent = buckets[i].Count * 100 / max
	}
	return buckets
}

// ruleHealth tracks per-rule activity. LastActivityAt ranges over the whole
// log; the recent counters use a trailing 24h window from wall-clock now,
// not from the log's latest entry. Entries without a rule reference are
// excluded.
func ruleHealth(entries []models.LogEntry, now time.Time) []models.RuleHealth {
	byRule := make(map[string]*models.RuleHealth)
	cutoff := now.Add(-healthWindow)

	for _, e := range entries {
		if e.RuleID == nil || *e.RuleID == "" {
			continue
		}
		health, ok := byRule[*e.RuleID]
		if !ok {
			health = &models.RuleHealth{RuleID: *e.RuleID}
			byRule[*e.RuleID] = health
		}
		if e.CreatedAt.After(health.LastActivityAt) {
			health.LastActivityAt = e.CreatedAt
		}
		if e.CreatedAt.Before(cutoff) {
			continue
		}
		health.RecentEvents++
		if e.Status == models.StatusError {
			health.RecentErrors++
		}
	}

	rules := make([]models.RuleHealth, 0, len(byRule))
	for _, health := range byRule {
		rules = append(rules, *health)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].RuleID < rules[j].RuleID })
	return rules
}
