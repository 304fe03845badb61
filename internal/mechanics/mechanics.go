// Package mechanics scores submitted answers per question mechanic. Every
// evaluator is pure and total: malformed values are treated as incorrect.
package mechanics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"quiz-room-service/internal/domain"
)

// Result is the evaluation outcome for a single team.
type Result struct {
	Correct       bool
	Deviation     *float64
	BestDeviation *float64
}

// Evaluate scores answers (team id -> raw value) against q.
func Evaluate(q domain.Question, answers map[string]any) map[string]Result {
	if q.Mechanic == domain.MechanicEstimate {
		return evaluateEstimate(q, answers)
	}

	check := matcher(q)
	results := make(map[string]Result, len(answers))
	for teamID, value := range answers {
		results[teamID] = Result{Correct: check(value)}
	}
	return results
}

func matcher(q domain.Question) func(any) bool {
	switch q.Mechanic {
	case domain.MechanicMultipleChoice:
		return func(v any) bool { return MultipleChoice(q, v) }
	case domain.MechanicTrueFalse:
		return func(v any) bool { return TrueFalse(q, v) }
	case domain.MechanicOrder:
		return func(v any) bool { return Order(q, v) }
	case domain.MechanicFreeText, domain.MechanicImage:
		return func(v any) bool { return FreeText(q, v) }
	default:
		return func(any) bool { return false }
	}
}

// evaluateEstimate marks every team at the minimum absolute deviation as
// correct. Ties are not broken.
func evaluateEstimate(q domain.Question, answers map[string]any) map[string]Result {
	results := make(map[string]Result, len(answers))
	if q.Target == nil {
		for teamID := range answers {
			results[teamID] = Result{}
		}
		return results
	}

	deviations := make(map[string]float64, len(answers))
	best := math.Inf(1)
	for teamID, value := range answers {
		n, ok := Number(value)
		if !ok {
			results[teamID] = Result{}
			continue
		}
		d := math.Abs(n - *q.Target)
		deviations[teamID] = d
		if d < best {
			best = d
		}
	}

	for teamID, d := range deviations {
		d := d
		shared := best
		results[teamID] = Result{
			Correct:       d == best,
			Deviation:     &d,
			BestDeviation: &shared,
		}
	}
	return results
}

// MultipleChoice compares the submitted option index with the correct one.
func MultipleChoice(q domain.Question, value any) bool {
	n, ok := Number(value)
	if !ok || n != math.Trunc(n) {
		return false
	}
	return int(n) == q.CorrectIndex
}

// TrueFalse accepts "true"/"false" in any case, or a boolean.
func TrueFalse(q domain.Question, value any) bool {
	switch v := value.(type) {
	case bool:
		return v == q.Correct
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return q.Correct
		case "false":
			return !q.Correct
		}
	}
	return false
}

// Order requires the exact canonical sequence.
func Order(q domain.Question, value any) bool {
	got, ok := orderItems(value)
	if !ok || len(got) != len(q.CorrectOrder) || len(got) == 0 {
		return false
	}
	for i, want := range q.CorrectOrder {
		if !orderVariants(q.Items, want)[got[i]] {
			return false
		}
	}
	return true
}

// orderVariants returns the normalized spellings accepted for one position:
// the stored item itself plus both language variants of the matching item.
func orderVariants(items []domain.Text, want string) map[string]bool {
	want = normalizeItem(want)
	variants := map[string]bool{want: true}
	for _, item := range items {
		de, en := normalizeItem(item.DE), normalizeItem(item.EN)
		if de != want && en != want {
			continue
		}
		variants[de] = true
		if en != "" {
			variants[en] = true
		}
	}
	return variants
}

// FreeText matches against the primary, localized and alternate answers,
// ignoring case and whitespace.
func FreeText(q domain.Question, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	got := normalizeText(s)
	if got == "" {
		return false
	}
	accepted := append([]string{q.Answer, q.AnswerEN}, q.AcceptedAnswers...)
	for _, candidate := range accepted {
		if c := normalizeText(candidate); c != "" && c == got {
			return true
		}
	}
	return false
}

// Number coerces JSON-ish values into a float. Strings may use a decimal comma.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return Number(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return Number(f)
	}
	return 0, false
}

func orderItems(value any) ([]string, bool) {
	var raw []string
	switch v := value.(type) {
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprint(item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, false
	}
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		items = append(items, normalizeItem(item))
	}
	return items, true
}

func normalizeItem(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
