package service

// Actor: пользователь, выполняющий операцию, как его описывает токен провайдера идентификации
type Actor struct {
	UserID   uint
	Username string
}
