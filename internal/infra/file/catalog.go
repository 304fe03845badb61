// Package file loads the read-only quiz catalog from JSON documents on disk.
//
// A catalog directory holds up to three files:
//
//	quizzes.json            {"<quizId>": {"title": ..., "questions": [...], "questionIds": [...]}}
//	custom_questions.json   {"<questionId>": {...question...}}
//	question_overrides.json {"<questionId>": {...fields to replace...}}
//
// Only quizzes.json is required. Overrides are applied to inline and
// custom questions alike.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"quiz-room-service/internal/domain"
)

const (
	QuizzesFile   = "quizzes.json"
	CustomFile    = "custom_questions.json"
	OverridesFile = "question_overrides.json"
)

type quizDocument struct {
	Title       string            `json:"title"`
	Questions   []domain.Question `json:"questions"`
	QuestionIDs []string          `json:"questionIds"`
}

// Catalog is an immutable set of quizzes loaded at start.
type Catalog struct {
	quizzes map[string]domain.Quiz
}

// Load reads and merges the catalog in dir.
func Load(dir string) (*Catalog, error) {
	var docs map[string]quizDocument
	if err := readJSON(filepath.Join(dir, QuizzesFile), &docs); err != nil {
		return nil, err
	}
	custom := map[string]domain.Question{}
	if err := readJSON(filepath.Join(dir, CustomFile), &custom); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	overrides := map[string]json.RawMessage{}
	if err := readJSON(filepath.Join(dir, OverridesFile), &overrides); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return build(docs, custom, overrides)
}

func build(docs map[string]quizDocument, custom map[string]domain.Question, overrides map[string]json.RawMessage) (*Catalog, error) {
	c := &Catalog{quizzes: make(map[string]domain.Quiz, len(docs))}
	for id, doc := range docs {
		quiz := domain.Quiz{ID: id, Title: doc.Title}
		seen := make(map[string]bool)
		add := func(q domain.Question) error {
			if q.ID == "" {
				return fmt.Errorf("quiz %s: question without id", id)
			}
			if seen[q.ID] {
				return fmt.Errorf("quiz %s: duplicate question %s", id, q.ID)
			}
			seen[q.ID] = true
			if raw, ok := overrides[q.ID]; ok {
				qid := q.ID
				// fresh pointer so an override never writes through to a shared question
				if q.Target != nil {
					target := *q.Target
					q.Target = &target
				}
				if err := json.Unmarshal(raw, &q); err != nil {
					return fmt.Errorf("override %s: %w", qid, err)
				}
				q.ID = qid
			}
			quiz.Questions = append(quiz.Questions, q)
			return nil
		}

		for _, q := range doc.Questions {
			if err := add(q); err != nil {
				return nil, err
			}
		}
		for _, qid := range doc.QuestionIDs {
			q, ok := custom[qid]
			if !ok {
				return nil, fmt.Errorf("quiz %s: %w: %s", id, domain.ErrQuestionNotFound, qid)
			}
			if q.ID == "" {
				q.ID = qid
			}
			if err := add(q); err != nil {
				return nil, err
			}
		}
		c.quizzes[id] = quiz
	}
	return c, nil
}

// LoadQuiz returns a quiz by id.
func (c *Catalog) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	quiz, ok := c.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
	}
	quiz.Questions = append([]domain.Question(nil), quiz.Questions...)
	return quiz, nil
}

// Quizzes returns every quiz ordered by id.
func (c *Catalog) Quizzes() []domain.Quiz {
	out := make([]domain.Quiz, 0, len(c.quizzes))
	for _, quiz := range c.quizzes {
		out = append(out, quiz)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
