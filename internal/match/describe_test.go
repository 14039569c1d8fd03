package match

import (
	"errors"
	"testing"
	"time"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
)

func TestDescribeTextOperators(t *testing.T) {
	operators := []models.StringOperator{
		models.StringIs,
		models.StringIsNot,
		models.StringContains,
		models.StringDoesNotContain,
		models.StringStartsWith,
		models.StringEndsWith,
		models.StringMatches,
		models.StringDoesNotMatch,
	}
	fields := []models.ConditionType{
		models.ConditionName,
		models.ConditionExtension,
		models.ConditionFullName,
		models.ConditionContents,
	}

	for _, field := range fields {
		for _, op := range operators {
			c := models.Condition{
				Type: field,
				Text: &models.TextPredicate{Operator: op, Value: "draft"},
			}
			got, err := Describe(&c)
			if err != nil {
				t.Fatalf("Describe(%s/%s) error: %v", field, op, err)
			}
			if got == "" {
				t.Errorf("Describe(%s/%s) returned empty string", field, op)
			}

			// Deterministic: identical input, identical output.
			again, _ := Describe(&c)
			if got != again {
				t.Errorf("Describe(%s/%s) not deterministic: %q vs %q", field, op, got, again)
			}
		}
	}
}

func TestDescribeCaseInsensitiveSuffix(t *testing.T) {
	c := models.Condition{
		Type: models.ConditionName,
		Text: &models.TextPredicate{
			Operator:      models.StringContains,
			Value:         "draft",
			CaseSensitive: boolPtr(false),
		},
	}
	got, err := Describe(&c)
	if err != nil {
		t.Fatal(err)
	}
	want := `name contains "draft" (ignoring case)`
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestDescribeSizeOperators(t *testing.T) {
	single := []models.SizeOperator{
		models.SizeEquals,
		models.SizeNotEquals,
		models.SizeGreaterThan,
		models.SizeLessThan,
		models.SizeGreaterOrEqual,
		models.SizeLessOrEqual,
	}
	for _, op := range single {
		c := models.Condition{
			Type: models.ConditionSize,
			Size: &models.SizePredicate{Operator: op, Value: f64Ptr(5), Unit: models.UnitMB},
		}
		got, err := Describe(&c)
		if err != nil {
			t.Fatalf("Describe(size/%s) error: %v", op, err)
		}
		if got == "" {
			t.Errorf("Describe(size/%s) returned empty string", op)
		}
	}

	between := models.Condition{
		Type: models.ConditionSize,
		Size: &models.SizePredicate{
			Operator: models.SizeBetween,
			Min:      f64Ptr(1),
			Max:      f64Ptr(10),
			Unit:     models.UnitKB,
		},
	}
	got, err := Describe(&between)
	if err != nil {
		t.Fatal(err)
	}
	if got != "size is between 1 and 10 KB" {
		t.Errorf("Describe(size/between) = %q", got)
	}
}

func TestDescribeDateAndTimeOperators(t *testing.T) {
	when := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)

	dates := []models.DatePredicate{
		{Operator: models.DateIs, Date: timePtr(when)},
		{Operator: models.DateIsBefore, Date: timePtr(when)},
		{Operator: models.DateIsAfter, Date: timePtr(when)},
		{Operator: models.DateInTheLast, Amount: 3, Unit: models.UnitDays},
		{Operator: models.DateNotInTheLast, Amount: 2, Unit: models.UnitWeeks},
		{Operator: models.DateBetween, Start: timePtr(when), End: timePtr(when.AddDate(0, 1, 0))},
	}
	for _, field := range []models.ConditionType{models.ConditionDateCreated, models.ConditionDateModified, models.ConditionDateAdded} {
		for i := range dates {
			c := models.Condition{Type: field, Date: &dates[i]}
			got, err := Describe(&c)
			if err != nil {
				t.Fatalf("Describe(%s/%s) error: %v", field, dates[i].Operator, err)
			}
			if got == "" {
				t.Errorf("Describe(%s/%s) returned empty string", field, dates[i].Operator)
			}
		}
	}

	times := []models.TimePredicate{
		{Operator: models.TimeIs, Value: "09:00"},
		{Operator: models.TimeIsBefore, Value: "17:00"},
		{Operator: models.TimeIsAfter, Value: "08:30"},
		{Operator: models.TimeBetween, Start: "22:00", End: "06:00"},
	}
	for i := range times {
		c := models.Condition{Type: models.ConditionCurrentTime, Time: &times[i]}
		got, err := Describe(&c)
		if err != nil {
			t.Fatalf("Describe(currentTime/%s) error: %v", times[i].Operator, err)
		}
		if got == "" {
			t.Errorf("Describe(currentTime/%s) returned empty string", times[i].Operator)
		}
	}
}

func TestDescribeRemainingVariants(t *testing.T) {
	tests := []struct {
		name string
		cond models.Condition
		want string
	}{
		{
			"kind",
			models.Condition{Type: models.ConditionKind, Kind: &models.KindPredicate{Kind: models.KindImage}},
			"kind is image",
		},
		{
			"kind negated",
			models.Condition{Type: models.ConditionKind, Kind: &models.KindPredicate{Kind: models.KindFolder, Negate: true}},
			"kind is not folder",
		},
		{
			"shell",
			models.Condition{Type: models.ConditionShellScript, Shell: &models.ShellPredicate{Command: "test -x \"$1\""}},
			`shell script "test -x \"$1\"" succeeds`,
		},
		{
			"nested with label",
			models.Condition{Type: models.ConditionNested, Nested: &models.NestedGroup{
				Label: "archives",
				Group: models.ConditionGroup{MatchType: models.MatchAny},
			}},
			`any of nested group "archives"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Describe(&tt.cond)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeUnknownVariant(t *testing.T) {
	c := models.Condition{Type: "telepathy"}
	if _, err := Describe(&c); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for unknown variant, got %v", err)
	}
}
