package match

import (
	"testing"
	"time"

	"sortd/internal/domain/models"
)

func boolPtr(b bool) *bool           { return &b }
func f64Ptr(f float64) *float64      { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func textCond(condType models.ConditionType, op models.StringOperator, value string) models.Condition {
	return models.Condition{
		Type: condType,
		Text: &models.TextPredicate{Operator: op, Value: value},
	}
}

func testFacts() FileFacts {
	return FileFacts{
		Path:     "/watch/Report Final.PDF",
		Name:     "Report Final",
		Ext:      "PDF",
		FullName: "Report Final.PDF",
		Size:     2048,
		Created:  time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC),
		Modified: time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
		Added:    time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC),
		Kind:     models.KindDocument,
		Now:      time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
	}
}

func TestEvaluateEmptyGroups(t *testing.T) {
	tests := []struct {
		matchType models.MatchType
		want      bool
	}{
		{models.MatchAll, true},
		{models.MatchAny, false},
		{models.MatchNone, true},
	}

	var e Evaluator
	for _, tt := range tests {
		t.Run(string(tt.matchType), func(t *testing.T) {
			g := &models.ConditionGroup{MatchType: tt.matchType}
			if got := e.Evaluate(g, testFacts()); got != tt.want {
				t.Errorf("empty %s group = %v, want %v", tt.matchType, got, tt.want)
			}
		})
	}
}

func TestEvaluateMatchTypes(t *testing.T) {
	matching := textCond(models.ConditionExtension, models.StringIs, "PDF")
	failing := textCond(models.ConditionExtension, models.StringIs, "zip")

	tests := []struct {
		name       string
		matchType  models.MatchType
		conditions []models.Condition
		want       bool
	}{
		{"all with one failing", models.MatchAll, []models.Condition{matching, failing}, false},
		{"all with all matching", models.MatchAll, []models.Condition{matching, matching}, true},
		{"any with one matching", models.MatchAny, []models.Condition{failing, matching}, true},
		{"any with none matching", models.MatchAny, []models.Condition{failing, failing}, false},
		{"none with none matching", models.MatchNone, []models.Condition{failing}, true},
		{"none with one matching", models.MatchNone, []models.Condition{failing, matching}, false},
	}

	var e Evaluator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &models.ConditionGroup{MatchType: tt.matchType, Conditions: tt.conditions}
			if got := e.Evaluate(g, testFacts()); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateTextCaseSensitivity(t *testing.T) {
	var e Evaluator
	facts := testFacts()

	// Case-sensitive by default: "pdf" does not match "PDF".
	sensitive := textCond(models.ConditionExtension, models.StringIs, "pdf")
	if e.Evaluate(&models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{sensitive}}, facts) {
		t.Error("default case-sensitive comparison matched across case")
	}

	insensitive := sensitive
	insensitive.Text = &models.TextPredicate{
		Operator:      models.StringIs,
		Value:         "pdf",
		CaseSensitive: boolPtr(false),
	}
	if !e.Evaluate(&models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{insensitive}}, facts) {
		t.Error("case-insensitive comparison did not match across case")
	}
}

func TestEvaluateTextOperators(t *testing.T) {
	tests := []struct {
		name string
		op   models.StringOperator
		val  string
		want bool
	}{
		{"is not differs", models.StringIsNot, "Other", true},
		{"contains", models.StringContains, "Final", true},
		{"does not contain", models.StringDoesNotContain, "Draft", true},
		{"starts with", models.StringStartsWith, "Report", true},
		{"ends with", models.StringEndsWith, "Final", true},
		{"matches regex", models.StringMatches, `^Report\s`, true},
		{"does not match regex", models.StringDoesNotMatch, `^\d+`, true},
		{"invalid pattern is non-match", models.StringMatches, `([`, false},
	}

	var e Evaluator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := textCond(models.ConditionName, tt.op, tt.val)
			g := &models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{c}}
			if got := e.Evaluate(g, testFacts()); got != tt.want {
				t.Errorf("operator %s = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestEvaluateTextPatternCaseInsensitive(t *testing.T) {
	tests := []struct {
		name string
		op   models.StringOperator
		val  string
		want bool
	}{
		{"pattern ignores subject case", models.StringMatches, `^report`, true},
		{"escape class kept intact", models.StringMatches, `^\D+$`, true},
		{"negated escape class", models.StringDoesNotMatch, `\d`, true},
	}

	var e Evaluator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := textCond(models.ConditionName, tt.op, tt.val)
			c.Text.CaseSensitive = boolPtr(false)
			g := &models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{c}}
			if got := e.Evaluate(g, testFacts()); got != tt.want {
				t.Errorf("operator %s = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestEvaluateSizeBetweenInclusive(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want bool
	}{
		{"below min", 1023, false},
		{"at min", 1024, true},
		{"inside", 2000, true},
		{"at max", 4096, true},
		{"above max", 4097, false},
	}

	var e Evaluator
	cond := models.Condition{
		Type: models.ConditionSize,
		Size: &models.SizePredicate{
			Operator: models.SizeBetween,
			Min:      f64Ptr(1),
			Max:      f64Ptr(4),
			Unit:     models.UnitKB,
		},
	}
	g := &models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{cond}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := testFacts()
			facts.Size = tt.size
			if got := e.Evaluate(g, facts); got != tt.want {
				t.Errorf("size %d = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestEvaluateDateOperators(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pred     models.DatePredicate
		modified time.Time
		want     bool
	}{
		{
			"is matches same calendar day",
			models.DatePredicate{Operator: models.DateIs, Date: timePtr(time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC))},
			time.Date(2025, 5, 30, 23, 59, 0, 0, time.UTC),
			true,
		},
		{
			"in the last includes the boundary",
			models.DatePredicate{Operator: models.DateInTheLast, Amount: 2, Unit: models.UnitDays},
			now.AddDate(0, 0, -2),
			true,
		},
		{
			"in the last excludes older",
			models.DatePredicate{Operator: models.DateInTheLast, Amount: 2, Unit: models.UnitDays},
			now.AddDate(0, 0, -2).Add(-time.Second),
			false,
		},
		{
			"in the last months is calendar aware",
			models.DatePredicate{Operator: models.DateInTheLast, Amount: 1, Unit: models.UnitMonths},
			time.Date(2025, 5, 1, 14, 30, 0, 0, time.UTC),
			true,
		},
		{
			"between includes both ends",
			models.DatePredicate{
				Operator: models.DateBetween,
				Start:    timePtr(time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)),
				End:      timePtr(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)),
			},
			time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
			true,
		},
	}

	var e Evaluator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := tt.pred
			cond := models.Condition{Type: models.ConditionDateModified, Date: &pred}
			g := &models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{cond}}
			facts := testFacts()
			facts.Modified = tt.modified
			facts.Now = now
			if got := e.Evaluate(g, facts); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateCurrentTime(t *testing.T) {
	tests := []struct {
		name string
		pred models.TimePredicate
		at   string
		want bool
	}{
		{"between inside", models.TimePredicate{Operator: models.TimeBetween, Start: "09:00", End: "17:00"}, "14:30", true},
		{"between at start", models.TimePredicate{Operator: models.TimeBetween, Start: "09:00", End: "17:00"}, "09:00", true},
		{"between at end", models.TimePredicate{Operator: models.TimeBetween, Start: "09:00", End: "17:00"}, "17:00", true},
		{"between outside", models.TimePredicate{Operator: models.TimeBetween, Start: "09:00", End: "17:00"}, "17:01", false},
		{"wraps midnight late side", models.TimePredicate{Operator: models.TimeBetween, Start: "22:00", End: "06:00"}, "23:15", true},
		{"wraps midnight early side", models.TimePredicate{Operator: models.TimeBetween, Start: "22:00", End: "06:00"}, "06:00", true},
		{"wraps midnight outside", models.TimePredicate{Operator: models.TimeBetween, Start: "22:00", End: "06:00"}, "12:00", false},
		{"is before", models.TimePredicate{Operator: models.TimeIsBefore, Value: "15:00"}, "14:59", true},
		{"is after", models.TimePredicate{Operator: models.TimeIsAfter, Value: "15:00"}, "14:59", false},
	}

	var e Evaluator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := time.Parse("15:04", tt.at)
			if err != nil {
				t.Fatal(err)
			}
			pred := tt.pred
			cond := models.Condition{Type: models.ConditionCurrentTime, Time: &pred}
			g := &models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{cond}}
			facts := testFacts()
			facts.Now = time.Date(2025, 6, 1, at.Hour(), at.Minute(), 0, 0, time.UTC)
			if got := e.Evaluate(g, facts); got != tt.want {
				t.Errorf("at %s got %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestEvaluateKind(t *testing.T) {
	tests := []struct {
		name   string
		pred   models.KindPredicate
		actual models.FileKind
		want   bool
	}{
		{"exact kind", models.KindPredicate{Kind: models.KindImage}, models.KindImage, true},
		{"other kind", models.KindPredicate{Kind: models.KindImage}, models.KindAudio, false},
		{"file matches any non-folder", models.KindPredicate{Kind: models.KindFile}, models.KindDocument, true},
		{"file does not match folder", models.KindPredicate{Kind: models.KindFile}, models.KindFolder, false},
		{"negate flips", models.KindPredicate{Kind: models.KindImage, Negate: true}, models.KindImage, false},
	}

	var e Evaluator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := tt.pred
			cond := models.Condition{Type: models.ConditionKind, Kind: &pred}
			g := &models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{cond}}
			facts := testFacts()
			facts.Kind = tt.actual
			if got := e.Evaluate(g, facts); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type stubProber struct{ result bool }

func (p stubProber) Probe(command, filePath string) bool { return p.result }

func TestEvaluateShellAndNested(t *testing.T) {
	shellCond := models.Condition{
		Type:  models.ConditionShellScript,
		Shell: &models.ShellPredicate{Command: "true"},
	}
	nested := models.Condition{
		Type: models.ConditionNested,
		Nested: &models.NestedGroup{
			Label: "archives",
			Group: models.ConditionGroup{
				MatchType:  models.MatchAny,
				Conditions: []models.Condition{textCond(models.ConditionExtension, models.StringIs, "PDF")},
			},
		},
	}
	g := &models.ConditionGroup{
		MatchType:  models.MatchAll,
		Conditions: []models.Condition{shellCond, nested},
	}

	e := Evaluator{Shell: stubProber{result: true}}
	if !e.Evaluate(g, testFacts()) {
		t.Error("expected group with passing shell and nested conditions to match")
	}

	e.Shell = stubProber{result: false}
	if e.Evaluate(g, testFacts()) {
		t.Error("expected failing shell condition to fail the group")
	}

	// Without a prober, shell conditions evaluate false.
	var bare Evaluator
	if bare.Evaluate(g, testFacts()) {
		t.Error("expected shell condition without prober to evaluate false")
	}
}

func TestEvaluateContentsLazy(t *testing.T) {
	var e Evaluator
	cond := textCond(models.ConditionContents, models.StringContains, "invoice")
	g := &models.ConditionGroup{MatchType: models.MatchAll, Conditions: []models.Condition{cond}}

	facts := testFacts()
	facts.Contents = func() string { return "Invoice no 42, invoice copy" }
	if !e.Evaluate(g, facts) {
		t.Error("expected contents condition to read the lazy extractor")
	}

	// Absent extractor means contents are the empty string.
	facts.Contents = nil
	if e.Evaluate(g, facts) {
		t.Error("expected contents condition without extractor to fail")
	}
}
