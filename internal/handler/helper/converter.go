package helper

import (
	"github.com/yourusername/legalgames-api/internal/domain/entity"
)

// QuestionOption: вариант ответа для клиента, без отметки о верности
type QuestionOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// ConvertAnswersToOptions преобразует варианты ответа в объекты для клиента
func ConvertAnswersToOptions(answers []entity.Answer) []QuestionOption {
	converted := make([]QuestionOption, len(answers))
	for i, a := range answers {
		text := a.Text
		if text == "" {
			text = "(пустой вариант)"
		}
		converted[i] = QuestionOption{ID: a.ID, Text: text}
	}
	return converted
}
