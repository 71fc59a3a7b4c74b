package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText удаляет HTML-теги из пользовательского ввода и обрезает пробелы.
// bluemonday экранирует оставшийся текст; в базе храним его в исходном виде,
// экранирование остаётся за клиентом при выводе.
func sanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(input)))
}

// NormalizeRoomCode приводит код комнаты к каноническому виду
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
