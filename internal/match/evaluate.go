package match

import (
	"regexp"
	"strings"
	"time"

	"sortd/internal/domain/models"
)

// ShellProber decides the truth value of a shellScript condition. The core
// never runs the command itself.
type ShellProber interface {
	Probe(command, filePath string) bool
}

// PatternMatcher decides matches/doesNotMatch. The pattern dialect (glob,
// regex) is owned by the host, not by the model. Case-insensitive predicates
// arrive with an "(?i)" prefix on the pattern.
type PatternMatcher func(pattern, value string) bool

// RegexpMatcher is the default PatternMatcher. An invalid pattern is a
// non-match, never an evaluation failure.
func RegexpMatcher(pattern, value string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// Evaluator evaluates validated condition groups against file facts.
// The zero value works: shell conditions evaluate false and patterns use
// RegexpMatcher.
type Evaluator struct {
	Shell   ShellProber
	Pattern PatternMatcher
}

// Evaluate returns whether the group matches the facts. It assumes the group
// passed models.ConditionGroup.Validate, which bounds nesting depth; on
// validated input it cannot fail.
//
//	all:  true iff every child matches (vacuously true when empty)
//	any:  true iff at least one child matches (false when empty)
//	none: true iff no child matches (vacuously true when empty)
func (e *Evaluator) Evaluate(g *models.ConditionGroup, f FileFacts) bool {
	switch g.MatchType {
	case models.MatchAll:
		for i := range g.Conditions {
			if !e.condition(&g.Conditions[i], f) {
				return false
			}
		}
		return true
	case models.MatchAny:
		for i := range g.Conditions {
			if e.condition(&g.Conditions[i], f) {
				return true
			}
		}
		return false
	case models.MatchNone:
		for i := range g.Conditions {
			if e.condition(&g.Conditions[i], f) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (e *Evaluator) condition(c *models.Condition, f FileFacts) bool {
	switch c.Type {
	case models.ConditionName:
		return e.text(c.Text, f.Name)
	case models.ConditionExtension:
		return e.text(c.Text, f.Ext)
	case models.ConditionFullName:
		return e.text(c.Text, f.FullName)
	case models.ConditionContents:
		contents := ""
		if f.Contents != nil {
			contents = f.Contents()
		}
		return e.text(c.Text, contents)
	case models.ConditionSize:
		return size(c.Size, f.Size)
	case models.ConditionDateCreated:
		return date(c.Date, f.Created, f.Now)
	case models.ConditionDateModified:
		return date(c.Date, f.Modified, f.Now)
	case models.ConditionDateAdded:
		return date(c.Date, f.Added, f.Now)
	case models.ConditionCurrentTime:
		return clock(c.Time, f.Now)
	case models.ConditionKind:
		return kind(c.Kind, f.Kind)
	case models.ConditionShellScript:
		if e.Shell == nil {
			return false
		}
		return e.Shell.Probe(c.Shell.Command, f.Path)
	case models.ConditionNested:
		return e.Evaluate(&c.Nested.Group, f)
	default:
		return false
	}
}

func (e *Evaluator) text(p *models.TextPredicate, subject string) bool {
	// Pattern operators get the subject untouched. Lowercasing the pattern
	// would corrupt escape classes like \D, so case-insensitivity is handed
	// to the matcher instead.
	switch p.Operator {
	case models.StringMatches:
		return e.matchPattern(patternFor(p), subject)
	case models.StringDoesNotMatch:
		return !e.matchPattern(patternFor(p), subject)
	}

	value := p.Value
	if !p.IsCaseSensitive() {
		subject = strings.ToLower(subject)
		value = strings.ToLower(value)
	}

	switch p.Operator {
	case models.StringIs:
		return subject == value
	case models.StringIsNot:
		return subject != value
	case models.StringContains:
		return strings.Contains(subject, value)
	case models.StringDoesNotContain:
		return !strings.Contains(subject, value)
	case models.StringStartsWith:
		return strings.HasPrefix(subject, value)
	case models.StringEndsWith:
		return strings.HasSuffix(subject, value)
	default:
		return false
	}
}

func patternFor(p *models.TextPredicate) string {
	if p.IsCaseSensitive() {
		return p.Value
	}
	return "(?i)" + p.Value
}

func (e *Evaluator) matchPattern(pattern, value string) bool {
	if e.Pattern != nil {
		return e.Pattern(pattern, value)
	}
	return RegexpMatcher(pattern, value)
}

func size(p *models.SizePredicate, bytes int64) bool {
	actual := float64(bytes)
	if p.Operator == models.SizeBetween {
		// Inclusive on both ends
		return actual >= p.Unit.Bytes(*p.Min) && actual <= p.Unit.Bytes(*p.Max)
	}

	want := p.Unit.Bytes(*p.Value)
	switch p.Operator {
	case models.SizeEquals:
		return actual == want
	case models.SizeNotEquals:
		return actual != want
	case models.SizeGreaterThan:
		return actual > want
	case models.SizeLessThan:
		return actual < want
	case models.SizeGreaterOrEqual:
		return actual >= want
	case models.SizeLessOrEqual:
		return actual <= want
	default:
		return false
	}
}

func date(p *models.DatePredicate, ts, now time.Time) bool {
	switch p.Operator {
	case models.DateIs:
		ty, tm, td := ts.Date()
		py, pm, pd := p.Date.Date()
		return ty == py && tm == pm && td == pd
	case models.DateIsBefore:
		return ts.Before(*p.Date)
	case models.DateIsAfter:
		return ts.After(*p.Date)
	case models.DateInTheLast:
		return !ts.Before(p.Unit.Threshold(now, p.Amount))
	case models.DateNotInTheLast:
		return ts.Before(p.Unit.Threshold(now, p.Amount))
	case models.DateBetween:
		// Inclusive on both ends
		return !ts.Before(*p.Start) && !ts.After(*p.End)
	default:
		return false
	}
}

func clock(p *models.TimePredicate, now time.Time) bool {
	minute := now.Hour()*60 + now.Minute()

	if p.Operator == models.TimeBetween {
		start, err := models.ParseClock(p.Start)
		if err != nil {
			return false
		}
		end, err := models.ParseClock(p.End)
		if err != nil {
			return false
		}
		if start <= end {
			return minute >= start && minute <= end
		}
		// Range wraps past midnight, still inclusive on both ends
		return minute >= start || minute <= end
	}

	want, err := models.ParseClock(p.Value)
	if err != nil {
		return false
	}
	switch p.Operator {
	case models.TimeIs:
		return minute == want
	case models.TimeIsBefore:
		return minute < want
	case models.TimeIsAfter:
		return minute > want
	default:
		return false
	}
}

func kind(p *models.KindPredicate, actual models.FileKind) bool {
	// "file" matches anything that is not a folder; the specific kinds
	// refine it.
	matched := actual == p.Kind || (p.Kind == models.KindFile && actual != models.KindFolder)
	if p.Negate {
		return !matched
	}
	return matched
}
