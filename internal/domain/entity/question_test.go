package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestion() *Question {
	return &Question{
		ID:           1,
		Text:         "Какой суд рассматривает апелляции?",
		PointValue:   10,
		TimeLimitSec: 30,
		Answers: []Answer{
			{ID: 11, QuestionID: 1, Text: "Апелляционный суд", IsCorrect: true},
			{ID: 12, QuestionID: 1, Text: "Районный суд"},
		},
	}
}

func TestQuestion_FindAnswer(t *testing.T) {
	q := sampleQuestion()

	a, ok := q.FindAnswer(11)
	require.True(t, ok)
	assert.True(t, a.IsCorrect)

	_, ok = q.FindAnswer(99)
	assert.False(t, ok, "чужой вариант не должен находиться")
}

func TestQuestion_CalculatePoints(t *testing.T) {
	q := sampleQuestion()
	assert.Equal(t, 10, q.CalculatePoints(true))
	assert.Equal(t, 0, q.CalculatePoints(false))
}

func TestQuestion_CorrectCount(t *testing.T) {
	q := sampleQuestion()
	assert.Equal(t, 1, q.CorrectCount())

	q.Answers[1].IsCorrect = true
	assert.Equal(t, 2, q.CorrectCount())
}

func TestQuestion_IsTimeExceeded(t *testing.T) {
	q := sampleQuestion()
	assert.False(t, q.IsTimeExceeded(30*time.Second), "ровно на границе лимит не превышен")
	assert.True(t, q.IsTimeExceeded(30*time.Second+time.Millisecond))

	q.TimeLimitSec = 0
	assert.False(t, q.IsTimeExceeded(time.Hour), "лимит 0 означает отсутствие ограничения")
}
