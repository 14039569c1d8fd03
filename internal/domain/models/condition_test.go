package models

import (
	"encoding/json"
	"errors"
	"testing"

	"sortd/internal/domain"
)

func validTextCondition() Condition {
	return Condition{
		Type: ConditionName,
		Text: &TextPredicate{Operator: StringContains, Value: "draft"},
	}
}

func TestConditionGroupValidate(t *testing.T) {
	f := 5.0

	tests := []struct {
		name    string
		group   ConditionGroup
		wantErr bool
	}{
		{
			"valid group",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{validTextCondition()}},
			false,
		},
		{
			"empty group is valid",
			ConditionGroup{MatchType: MatchNone},
			false,
		},
		{
			"unknown match type",
			ConditionGroup{MatchType: "most"},
			true,
		},
		{
			"unknown condition type",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{Type: "weather"}}},
			true,
		},
		{
			"missing payload",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{Type: ConditionSize}}},
			true,
		},
		{
			"two payloads",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
				Type: ConditionSize,
				Size: &SizePredicate{Operator: SizeEquals, Value: &f, Unit: UnitMB},
				Text: &TextPredicate{Operator: StringIs, Value: "x"},
			}}},
			true,
		},
		{
			"between without bounds",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
				Type: ConditionSize,
				Size: &SizePredicate{Operator: SizeBetween, Unit: UnitKB},
			}}},
			true,
		},
		{
			"relative date without amount",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
				Type: ConditionDateModified,
				Date: &DatePredicate{Operator: DateInTheLast, Unit: UnitDays},
			}}},
			true,
		},
		{
			"malformed clock value",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
				Type: ConditionCurrentTime,
				Time: &TimePredicate{Operator: TimeIs, Value: "25:99"},
			}}},
			true,
		},
		{
			"empty shell command",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
				Type:  ConditionShellScript,
				Shell: &ShellPredicate{},
			}}},
			true,
		},
		{
			"valid nested group",
			ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
				Type: ConditionNested,
				Nested: &NestedGroup{Group: ConditionGroup{
					MatchType:  MatchAny,
					Conditions: []Condition{validTextCondition()},
				}},
			}}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate(64)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Validate() error %v is not a validation error", err)
			}
		})
	}
}

func TestConditionGroupValidateDepthBound(t *testing.T) {
	// Build a chain three groups deep.
	leaf := ConditionGroup{MatchType: MatchAll, Conditions: []Condition{validTextCondition()}}
	mid := ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
		Type:   ConditionNested,
		Nested: &NestedGroup{Group: leaf},
	}}}
	root := ConditionGroup{MatchType: MatchAll, Conditions: []Condition{{
		Type:   ConditionNested,
		Nested: &NestedGroup{Group: mid},
	}}}

	if err := root.Validate(3); err != nil {
		t.Errorf("depth 3 chain rejected at maxDepth 3: %v", err)
	}
	if err := root.Validate(2); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("depth 3 chain accepted at maxDepth 2, err = %v", err)
	}
}

func TestTextPredicateCaseSensitiveDefault(t *testing.T) {
	var p TextPredicate
	if !p.IsCaseSensitive() {
		t.Error("absent caseSensitive flag should default to sensitive")
	}

	// The default survives a JSON round trip without materializing the field.
	raw, err := json.Marshal(TextPredicate{Operator: StringIs, Value: "x"})
	if err != nil {
		t.Fatal(err)
	}
	var back TextPredicate
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.CaseSensitive != nil {
		t.Error("absent caseSensitive flag should stay absent through JSON")
	}
}

func TestSizeUnitBytes(t *testing.T) {
	tests := []struct {
		unit SizeUnit
		want float64
	}{
		{UnitBytes, 2},
		{UnitKB, 2048},
		{UnitMB, 2 * 1024 * 1024},
		{UnitGB, 2 * 1024 * 1024 * 1024},
	}
	for _, tt := range tests {
		if got := tt.unit.Bytes(2); got != tt.want {
			t.Errorf("%s.Bytes(2) = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12:34xx", 0, true},
		{"12:34:56", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}
