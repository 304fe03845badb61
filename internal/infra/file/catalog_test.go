package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-room-service/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadMergesCustomQuestionsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, QuizzesFile, `{
		"pub": {
			"title": "Pub Quiz",
			"questions": [
				{"id": "q1", "mechanic": "multiple_choice", "text": {"de": "Hauptstadt?"}, "options": [{"de": "Bern"}, {"de": "Wien"}], "correctIndex": 1}
			],
			"questionIds": ["c1"]
		},
		"other": {"title": "Other", "questionIds": ["c1"]}
	}`)
	writeFile(t, dir, CustomFile, `{
		"c1": {"mechanic": "estimate", "text": {"de": "Einwohner?"}, "target": 100, "points": 2}
	}`)
	writeFile(t, dir, OverridesFile, `{
		"q1": {"points": 3},
		"c1": {"target": 120, "id": "ignored"}
	}`)

	catalog, err := Load(dir)
	require.NoError(t, err)

	quiz, err := catalog.LoadQuiz(context.Background(), "pub")
	require.NoError(t, err)
	assert.Equal(t, "Pub Quiz", quiz.Title)
	assert.Equal(t, []string{"q1", "c1"}, quiz.QuestionIDs())

	q1, _ := quiz.Question("q1")
	assert.Equal(t, 3, q1.Points)
	assert.Equal(t, 1, q1.CorrectIndex)

	c1, _ := quiz.Question("c1")
	assert.Equal(t, "c1", c1.ID)
	assert.Equal(t, 2, c1.Points)
	require.NotNil(t, c1.Target)
	assert.Equal(t, 120.0, *c1.Target)

	other, err := catalog.LoadQuiz(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, 120.0, *other.Questions[0].Target)

	ids := make([]string, 0)
	for _, q := range catalog.Quizzes() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"other", "pub"}, ids)
}

func TestLoadWithoutOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, QuizzesFile, `{"solo": {"questions": [{"id": "q1", "mechanic": "true_false", "text": {"de": "Ja?"}, "correct": true}]}}`)

	catalog, err := Load(dir)
	require.NoError(t, err)

	_, err = catalog.LoadQuiz(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrQuizNotFound))
}

func TestLoadRejectsBrokenCatalogs(t *testing.T) {
	t.Run("unknown custom question", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, QuizzesFile, `{"pub": {"questionIds": ["nope"]}}`)
		_, err := Load(dir)
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})
	t.Run("duplicate question", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, QuizzesFile, `{"pub": {"questions": [{"id": "q1"}, {"id": "q1"}]}}`)
		_, err := Load(dir)
		assert.Error(t, err)
	})
	t.Run("missing quizzes file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestBundledCatalogLoads(t *testing.T) {
	catalog, err := Load(filepath.Join("..", "..", "..", "data"))
	require.NoError(t, err)

	quiz, err := catalog.LoadQuiz(context.Background(), "pub-night")
	require.NoError(t, err)
	assert.Equal(t, []string{"pn-everest", "pn-capital", "pn-moon", "pn-planets", "custom-painter"}, quiz.QuestionIDs())

	painter, ok := quiz.Question("custom-painter")
	require.True(t, ok)
	assert.Equal(t, domain.MechanicFreeText, painter.Mechanic)
}
