package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sortd/internal/domain"
)

// MatchType is the boolean combinator for a condition group.
type MatchType string

const (
	MatchAll  MatchType = "all"  // AND - every child must match
	MatchAny  MatchType = "any"  // OR - at least one child must match
	MatchNone MatchType = "none" // NOR - no child may match
)

// ConditionGroup combines an ordered list of conditions under a match type.
// Groups nest via the "nested" condition variant.
type ConditionGroup struct {
	MatchType  MatchType   `json:"matchType"`
	Conditions []Condition `json:"conditions"`
}

// ConditionType discriminates the Condition variant.
type ConditionType string

const (
	ConditionName         ConditionType = "name"
	ConditionExtension    ConditionType = "extension"
	ConditionFullName     ConditionType = "fullName"
	ConditionContents     ConditionType = "contents"
	ConditionSize         ConditionType = "size"
	ConditionDateCreated  ConditionType = "dateCreated"
	ConditionDateModified ConditionType = "dateModified"
	ConditionDateAdded    ConditionType = "dateAdded"
	ConditionCurrentTime  ConditionType = "currentTime"
	ConditionKind         ConditionType = "kind"
	ConditionShellScript  ConditionType = "shellScript"
	ConditionNested       ConditionType = "nested"
)

// Condition is a tagged variant: Type selects exactly one of the payload
// pointers. Anything else fails Validate, which runs at construction/import
// time so that evaluation never has to handle malformed data.
type Condition struct {
	Type   ConditionType   `json:"type"`
	Text   *TextPredicate  `json:"text,omitempty"`   // name/extension/fullName/contents
	Size   *SizePredicate  `json:"size,omitempty"`   // size
	Date   *DatePredicate  `json:"date,omitempty"`   // dateCreated/dateModified/dateAdded
	Time   *TimePredicate  `json:"time,omitempty"`   // currentTime
	Kind   *KindPredicate  `json:"kind,omitempty"`   // kind
	Shell  *ShellPredicate `json:"shell,omitempty"`  // shellScript
	Nested *NestedGroup    `json:"nested,omitempty"` // nested
}

// StringOperator applies to the text-valued condition types.
type StringOperator string

const (
	StringIs             StringOperator = "is"
	StringIsNot          StringOperator = "isNot"
	StringContains       StringOperator = "contains"
	StringDoesNotContain StringOperator = "doesNotContain"
	StringStartsWith     StringOperator = "startsWith"
	StringEndsWith       StringOperator = "endsWith"
	StringMatches        StringOperator = "matches"
	StringDoesNotMatch   StringOperator = "doesNotMatch"
)

// TextPredicate matches a text field of the file. CaseSensitive defaults to
// true when absent; nil means "not specified", which is case-sensitive.
type TextPredicate struct {
	Operator      StringOperator `json:"operator"`
	Value         string         `json:"value"`
	CaseSensitive *bool          `json:"caseSensitive,omitempty"`
}

// IsCaseSensitive resolves the default-sensitive flag.
func (p *TextPredicate) IsCaseSensitive() bool {
	return p.CaseSensitive == nil || *p.CaseSensitive
}

// SizeOperator is itself a tagged variant: between carries min/max, the rest
// carry a single value.
type SizeOperator string

const (
	SizeEquals         SizeOperator = "equals"
	SizeNotEquals      SizeOperator = "notEquals"
	SizeGreaterThan    SizeOperator = "greaterThan"
	SizeLessThan       SizeOperator = "lessThan"
	SizeGreaterOrEqual SizeOperator = "greaterOrEqual"
	SizeLessOrEqual    SizeOperator = "lessOrEqual"
	SizeBetween        SizeOperator = "between"
)

// SizeUnit scales a size value to bytes.
type SizeUnit string

const (
	UnitBytes SizeUnit = "bytes"
	UnitKB    SizeUnit = "KB"
	UnitMB    SizeUnit = "MB"
	UnitGB    SizeUnit = "GB"
)

// Bytes converts a value in this unit to bytes.
func (u SizeUnit) Bytes(value float64) float64 {
	switch u {
	case UnitKB:
		return value * 1024
	case UnitMB:
		return value * 1024 * 1024
	case UnitGB:
		return value * 1024 * 1024 * 1024
	default:
		return value
	}
}

// SizePredicate compares the file size after normalizing to bytes.
// between is inclusive on both ends.
type SizePredicate struct {
	Operator SizeOperator `json:"operator"`
	Value    *float64     `json:"value,omitempty"`
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
	Unit     SizeUnit     `json:"unit"`
}

// DateOperator applies to the date-valued condition types.
type DateOperator string

const (
	DateIs           DateOperator = "is"
	DateIsBefore     DateOperator = "isBefore"
	DateIsAfter      DateOperator = "isAfter"
	DateInTheLast    DateOperator = "inTheLast"
	DateNotInTheLast DateOperator = "notInTheLast"
	DateBetween      DateOperator = "between"
)

// RelativeUnit scales the amount of an inTheLast/notInTheLast predicate.
// Months and years use calendar-aware subtraction, not fixed-second multiples.
type RelativeUnit string

const (
	UnitMinutes RelativeUnit = "minutes"
	UnitHours   RelativeUnit = "hours"
	UnitDays    RelativeUnit = "days"
	UnitWeeks   RelativeUnit = "weeks"
	UnitMonths  RelativeUnit = "months"
	UnitYears   RelativeUnit = "years"
)

// Threshold returns the instant `amount` units before now.
func (u RelativeUnit) Threshold(now time.Time, amount int) time.Time {
	switch u {
	case UnitMinutes:
		return now.Add(-time.Duration(amount) * time.Minute)
	case UnitHours:
		return now.Add(-time.Duration(amount) * time.Hour)
	case UnitDays:
		return now.AddDate(0, 0, -amount)
	case UnitWeeks:
		return now.AddDate(0, 0, -7*amount)
	case UnitMonths:
		return now.AddDate(0, -amount, 0)
	case UnitYears:
		return now.AddDate(-amount, 0, 0)
	default:
		return now
	}
}

// DatePredicate compares a file timestamp. between is inclusive on both ends.
type DatePredicate struct {
	Operator DateOperator `json:"operator"`
	Date     *time.Time   `json:"date,omitempty"`   // is/isBefore/isAfter
	Amount   int          `json:"amount,omitempty"` // inTheLast/notInTheLast
	Unit     RelativeUnit `json:"unit,omitempty"`
	Start    *time.Time   `json:"start,omitempty"` // between
	End      *time.Time   `json:"end,omitempty"`
}

// TimeOperator applies to the time-of-day condition.
type TimeOperator string

const (
	TimeIs       TimeOperator = "is"
	TimeIsBefore TimeOperator = "isBefore"
	TimeIsAfter  TimeOperator = "isAfter"
	TimeBetween  TimeOperator = "between"
)

// TimePredicate compares the time of day at evaluation time. Values are
// 24-hour "HH:MM" strings. A between range with start after end wraps past
// midnight and stays inclusive on both ends.
type TimePredicate struct {
	Operator TimeOperator `json:"operator"`
	Value    string       `json:"value,omitempty"`
	Start    string       `json:"start,omitempty"`
	End      string       `json:"end,omitempty"`
}

// FileKind is the coarse file classification the kind condition tests.
type FileKind string

const (
	KindFile     FileKind = "file"
	KindFolder   FileKind = "folder"
	KindImage    FileKind = "image"
	KindVideo    FileKind = "video"
	KindAudio    FileKind = "audio"
	KindDocument FileKind = "document"
	KindArchive  FileKind = "archive"
	KindCode     FileKind = "code"
	KindOther    FileKind = "other"
)

// KindPredicate tests membership in the kind enumeration; Negate is applied
// after the membership test.
type KindPredicate struct {
	Kind   FileKind `json:"kind"`
	Negate bool     `json:"negate,omitempty"`
}

// ShellPredicate delegates the truth value to an external command. The core
// never executes the command itself; evaluation goes through an injected
// prober.
type ShellPredicate struct {
	Command string `json:"command"`
}

// NestedGroup embeds a child group. Label is metadata only and never affects
// the truth value.
type NestedGroup struct {
	Label string         `json:"label,omitempty"`
	Group ConditionGroup `json:"group"`
}

// Validate checks the group and everything under it, bounding nesting at
// maxDepth levels. Malformed data is a construction-time validation failure,
// never a runtime evaluation failure.
func (g *ConditionGroup) Validate(maxDepth int) error {
	return g.validate(1, maxDepth)
}

func (g *ConditionGroup) validate(depth, maxDepth int) error {
	if depth > maxDepth {
		return fmt.Errorf("condition group exceeds maximum nesting depth %d: %w", maxDepth, domain.ErrValidation)
	}
	switch g.MatchType {
	case MatchAll, MatchAny, MatchNone:
	default:
		return fmt.Errorf("unknown match type %q: %w", g.MatchType, domain.ErrValidation)
	}
	for i := range g.Conditions {
		if err := g.Conditions[i].validate(depth, maxDepth); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}

func (c *Condition) validate(depth, maxDepth int) error {
	if err := c.checkPayload(); err != nil {
		return err
	}

	switch c.Type {
	case ConditionName, ConditionExtension, ConditionFullName, ConditionContents:
		return c.Text.validate()
	case ConditionSize:
		return c.Size.validate()
	case ConditionDateCreated, ConditionDateModified, ConditionDateAdded:
		return c.Date.validate()
	case ConditionCurrentTime:
		return c.Time.validate()
	case ConditionKind:
		return c.Kind.validate()
	case ConditionShellScript:
		if c.Shell.Command == "" {
			return fmt.Errorf("shell condition requires a command: %w", domain.ErrValidation)
		}
		return nil
	case ConditionNested:
		return c.Nested.Group.validate(depth+1, maxDepth)
	default:
		return fmt.Errorf("unknown condition type %q: %w", c.Type, domain.ErrValidation)
	}
}

// checkPayload verifies that exactly the payload matching Type is present.
func (c *Condition) checkPayload() error {
	want := map[ConditionType]bool{
		ConditionName:         c.Text != nil,
		ConditionExtension:    c.Text != nil,
		ConditionFullName:     c.Text != nil,
		ConditionContents:     c.Text != nil,
		ConditionSize:         c.Size != nil,
		ConditionDateCreated:  c.Date != nil,
		ConditionDateModified: c.Date != nil,
		ConditionDateAdded:    c.Date != nil,
		ConditionCurrentTime:  c.Time != nil,
		ConditionKind:         c.Kind != nil,
		ConditionShellScript:  c.Shell != nil,
		ConditionNested:       c.Nested != nil,
	}
	present, known := want[c.Type]
	if !known {
		return fmt.Errorf("unknown condition type %q: %w", c.Type, domain.ErrValidation)
	}
	if !present {
		return fmt.Errorf("condition type %q is missing its payload: %w", c.Type, domain.ErrValidation)
	}

	count := 0
	for _, set := range []bool{
		c.Text != nil, c.Size != nil, c.Date != nil, c.Time != nil,
		c.Kind != nil, c.Shell != nil, c.Nested != nil,
	} {
		if set {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("condition type %q carries %d payloads, want exactly 1: %w", c.Type, count, domain.ErrValidation)
	}
	return nil
}

func (p *TextPredicate) validate() error {
	switch p.Operator {
	case StringIs, StringIsNot, StringContains, StringDoesNotContain,
		StringStartsWith, StringEndsWith, StringMatches, StringDoesNotMatch:
		return nil
	default:
		return fmt.Errorf("unknown string operator %q: %w", p.Operator, domain.ErrValidation)
	}
}

func (p *SizePredicate) validate() error {
	switch p.Unit {
	case UnitBytes, UnitKB, UnitMB, UnitGB:
	default:
		return fmt.Errorf("unknown size unit %q: %w", p.Unit, domain.ErrValidation)
	}
	switch p.Operator {
	case SizeBetween:
		if p.Min == nil || p.Max == nil {
			return fmt.Errorf("size between requires min and max: %w", domain.ErrValidation)
		}
	case SizeEquals, SizeNotEquals, SizeGreaterThan, SizeLessThan,
		SizeGreaterOrEqual, SizeLessOrEqual:
		if p.Value == nil {
			return fmt.Errorf("size %s requires a value: %w", p.Operator, domain.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown size operator %q: %w", p.Operator, domain.ErrValidation)
	}
	return nil
}

func (p *DatePredicate) validate() error {
	switch p.Operator {
	case DateIs, DateIsBefore, DateIsAfter:
		if p.Date == nil {
			return fmt.Errorf("date %s requires a date: %w", p.Operator, domain.ErrValidation)
		}
	case DateInTheLast, DateNotInTheLast:
		if p.Amount <= 0 {
			return fmt.Errorf("date %s requires a positive amount: %w", p.Operator, domain.ErrValidation)
		}
		switch p.Unit {
		case UnitMinutes, UnitHours, UnitDays, UnitWeeks, UnitMonths, UnitYears:
		default:
			return fmt.Errorf("unknown relative unit %q: %w", p.Unit, domain.ErrValidation)
		}
	case DateBetween:
		if p.Start == nil || p.End == nil {
			return fmt.Errorf("date between requires start and end: %w", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown date operator %q: %w", p.Operator, domain.ErrValidation)
	}
	return nil
}

func (p *TimePredicate) validate() error {
	switch p.Operator {
	case TimeIs, TimeIsBefore, TimeIsAfter:
		if _, err := ParseClock(p.Value); err != nil {
			return err
		}
	case TimeBetween:
		if _, err := ParseClock(p.Start); err != nil {
			return err
		}
		if _, err := ParseClock(p.End); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown time operator %q: %w", p.Operator, domain.ErrValidation)
	}
	return nil
}

func (p *KindPredicate) validate() error {
	switch p.Kind {
	case KindFile, KindFolder, KindImage, KindVideo, KindAudio,
		KindDocument, KindArchive, KindCode, KindOther:
		return nil
	default:
		return fmt.Errorf("unknown file kind %q: %w", p.Kind, domain.ErrValidation)
	}
}

// ParseClock parses a 24-hour "HH:MM" string into minutes since midnight.
// The whole string must be consumed; trailing text is rejected.
func ParseClock(value string) (int, error) {
	hh, mm, ok := strings.Cut(value, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time of day %q: %w", value, domain.ErrValidation)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", value, domain.ErrValidation)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", value, domain.ErrValidation)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range: %w", value, domain.ErrValidation)
	}
	return h*60 + m, nil
}
