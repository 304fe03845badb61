package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Language selects which text variant is shown on the shared display.
type Language string

const (
	LanguageDE   Language = "de"
	LanguageEN   Language = "en"
	LanguageBoth Language = "both"
)

// ParseLanguage validates a language selection.
func ParseLanguage(raw string) (Language, error) {
	switch lang := Language(strings.ToLower(strings.TrimSpace(raw))); lang {
	case LanguageDE, LanguageEN, LanguageBoth:
		return lang, nil
	}
	return "", fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, raw)
}

// Text holds the bilingual variants of a piece of content.
type Text struct {
	DE string `json:"de"`
	EN string `json:"en,omitempty"`
}

// Resolve picks the variant for lang, falling back to German when the
// English text is missing.
func (t Text) Resolve(lang Language) string {
	switch lang {
	case LanguageEN:
		if t.EN != "" {
			return t.EN
		}
		return t.DE
	case LanguageBoth:
		if t.EN == "" || t.EN == t.DE {
			return t.DE
		}
		return t.DE + " / " + t.EN
	default:
		return t.DE
	}
}

// TeamQuestion is the question payload sent to team devices. It never
// carries the solution.
type TeamQuestion struct {
	ID        string   `json:"id"`
	Mechanic  Mechanic `json:"mechanic"`
	Text      string   `json:"text"`
	Points    int      `json:"points"`
	TimeLimit int      `json:"timeLimit,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Options   []string `json:"options,omitempty"`
	Items     []string `json:"items,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
}

// ForTeams strips solution fields and resolves text for lang.
func (q Question) ForTeams(lang Language) TeamQuestion {
	out := TeamQuestion{
		ID:        q.ID,
		Mechanic:  q.Mechanic,
		Text:      q.Text.Resolve(lang),
		Points:    q.PointValue(),
		TimeLimit: q.TimeLimit,
		Unit:      q.Unit,
		ImageURL:  q.ImageURL,
	}
	for _, opt := range q.Options {
		out.Options = append(out.Options, opt.Resolve(lang))
	}
	for _, item := range q.Items {
		out.Items = append(out.Items, item.Resolve(lang))
	}
	return out
}

// SolutionText renders the canonical solution for display after evaluation.
func (q Question) SolutionText(lang Language) string {
	switch q.Mechanic {
	case MechanicEstimate:
		if q.Target == nil {
			return ""
		}
		value := strconv.FormatFloat(*q.Target, 'f', -1, 64)
		if q.Unit != "" {
			return value + " " + q.Unit
		}
		return value
	case MechanicMultipleChoice:
		if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
			return q.Options[q.CorrectIndex].Resolve(lang)
		}
		return ""
	case MechanicTrueFalse:
		return boolText(q.Correct, lang)
	case MechanicOrder:
		return strings.Join(q.CorrectOrder, ", ")
	default:
		return Text{DE: q.Answer, EN: q.AnswerEN}.Resolve(lang)
	}
}

func boolText(v bool, lang Language) string {
	t := Text{DE: "Falsch", EN: "False"}
	if v {
		t = Text{DE: "Wahr", EN: "True"}
	}
	return t.Resolve(lang)
}
