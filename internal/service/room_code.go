package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// roomCodeAlphabet: символы кода комнаты: заглавные латинские буквы и цифры
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator выдаёт очередной кандидат в коды комнаты
type CodeGenerator func() (string, error)

// NewRandomCodeGenerator возвращает генератор случайных кодов заданной длины
func NewRandomCodeGenerator(length int) CodeGenerator {
	alphabetSize := big.NewInt(int64(len(roomCodeAlphabet)))
	return func() (string, error) {
		buf := make([]byte, length)
		for i := range buf {
			n, err := rand.Int(rand.Reader, alphabetSize)
			if err != nil {
				return "", fmt.Errorf("generate room code: %w", err)
			}
			buf[i] = roomCodeAlphabet[n.Int64()]
		}
		return string(buf), nil
	}
}
