package match

import (
	"fmt"
	"strconv"
	"time"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
)

// Describe renders a condition as deterministic, locale-independent text.
// Every variant/operator pair has its own template; an unknown variant is an
// error, never a default string. UI layers may fall back cosmetically, the
// core does not.
func Describe(c *models.Condition) (string, error) {
	switch c.Type {
	case models.ConditionName:
		return describeText("name", c.Text)
	case models.ConditionExtension:
		return describeText("extension", c.Text)
	case models.ConditionFullName:
		return describeText("full name", c.Text)
	case models.ConditionContents:
		return describeText("contents", c.Text)
	case models.ConditionSize:
		return describeSize(c.Size)
	case models.ConditionDateCreated:
		return describeDate("date created", c.Date)
	case models.ConditionDateModified:
		return describeDate("date modified", c.Date)
	case models.ConditionDateAdded:
		return describeDate("date added", c.Date)
	case models.ConditionCurrentTime:
		return describeTime(c.Time)
	case models.ConditionKind:
		if c.Kind.Negate {
			return fmt.Sprintf("kind is not %s", c.Kind.Kind), nil
		}
		return fmt.Sprintf("kind is %s", c.Kind.Kind), nil
	case models.ConditionShellScript:
		return fmt.Sprintf("shell script %q succeeds", c.Shell.Command), nil
	case models.ConditionNested:
		label := c.Nested.Label
		if label == "" {
			label = "…"
		}
		return fmt.Sprintf("%s of nested group %q", c.Nested.Group.MatchType, label), nil
	default:
		return "", fmt.Errorf("no description for condition type %q: %w", c.Type, domain.ErrValidation)
	}
}

func describeText(field string, p *models.TextPredicate) (string, error) {
	var tmpl string
	switch p.Operator {
	case models.StringIs:
		tmpl = "%s is %q"
	case models.StringIsNot:
		tmpl = "%s is not %q"
	case models.StringContains:
		tmpl = "%s contains %q"
	case models.StringDoesNotContain:
		tmpl = "%s does not contain %q"
	case models.StringStartsWith:
		tmpl = "%s starts with %q"
	case models.StringEndsWith:
		tmpl = "%s ends with %q"
	case models.StringMatches:
		tmpl = "%s matches %q"
	case models.StringDoesNotMatch:
		tmpl = "%s does not match %q"
	default:
		return "", fmt.Errorf("no description for string operator %q: %w", p.Operator, domain.ErrValidation)
	}
	text := fmt.Sprintf(tmpl, field, p.Value)
	if !p.IsCaseSensitive() {
		text += " (ignoring case)"
	}
	return text, nil
}

func describeSize(p *models.SizePredicate) (string, error) {
	if p.Operator == models.SizeBetween {
		return fmt.Sprintf("size is between %s and %s %s",
			sizeNumber(p.Min), sizeNumber(p.Max), p.Unit), nil
	}

	var verb string
	switch p.Operator {
	case models.SizeEquals:
		verb = "is"
	case models.SizeNotEquals:
		verb = "is not"
	case models.SizeGreaterThan:
		verb = "is greater than"
	case models.SizeLessThan:
		verb = "is less than"
	case models.SizeGreaterOrEqual:
		verb = "is at least"
	case models.SizeLessOrEqual:
		verb = "is at most"
	default:
		return "", fmt.Errorf("no description for size operator %q: %w", p.Operator, domain.ErrValidation)
	}
	return fmt.Sprintf("size %s %s %s", verb, sizeNumber(p.Value), p.Unit), nil
}

// sizeNumber renders an optional numeric value, using a literal placeholder
// when absent.
func sizeNumber(v *float64) string {
	if v == nil {
		return "…"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func describeDate(field string, p *models.DatePredicate) (string, error) {
	switch p.Operator {
	case models.DateIs:
		return fmt.Sprintf("%s is %s", field, dateValue(p.Date)), nil
	case models.DateIsBefore:
		return fmt.Sprintf("%s is before %s", field, dateValue(p.Date)), nil
	case models.DateIsAfter:
		return fmt.Sprintf("%s is after %s", field, dateValue(p.Date)), nil
	case models.DateInTheLast:
		return fmt.Sprintf("%s is in the last %d %s", field, p.Amount, p.Unit), nil
	case models.DateNotInTheLast:
		return fmt.Sprintf("%s is not in the last %d %s", field, p.Amount, p.Unit), nil
	case models.DateBetween:
		return fmt.Sprintf("%s is between %s and %s", field, dateValue(p.Start), dateValue(p.End)), nil
	default:
		return "", fmt.Errorf("no description for date operator %q: %w", p.Operator, domain.ErrValidation)
	}
}

func dateValue(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return t.UTC().Format("2006-01-02")
}

func describeTime(p *models.TimePredicate) (string, error) {
	switch p.Operator {
	case models.TimeIs:
		return fmt.Sprintf("current time is %s", clockValue(p.Value)), nil
	case models.TimeIsBefore:
		return fmt.Sprintf("current time is before %s", clockValue(p.Value)), nil
	case models.TimeIsAfter:
		return fmt.Sprintf("current time is after %s", clockValue(p.Value)), nil
	case models.TimeBetween:
		return fmt.Sprintf("current time is between %s and %s", clockValue(p.Start), clockValue(p.End)), nil
	default:
		return "", fmt.Errorf("no description for time operator %q: %w", p.Operator, domain.ErrValidation)
	}
}

func clockValue(v string) string {
	if v == "" {
		return "…"
	}
	return v
}

// DescribeGroup renders a whole group, one condition per line, for exports
// and debug output.
func DescribeGroup(g *models.ConditionGroup) ([]string, error) {
	lines := make([]string, 0, len(g.Conditions))
	for i := range g.Conditions {
		line, err := Describe(&g.Conditions[i])
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
