package services

import "errors"

// Общие ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Ресурсы
	ErrMatchNotFound      = errors.New("match not found")
	ErrDepartmentNotFound = errors.New("department not found")

	// Валидация создания матча
	ErrUnknownSport     = errors.New("unknown sport")
	ErrTeamsRequired    = errors.New("both teams are required")
	ErrSameTeams        = errors.New("a match needs two different teams")
	ErrInvalidSetCount  = errors.New("max sets must be a positive odd number")
	ErrInvalidOverCount = errors.New("total overs must be positive")

	// Конкурентное обновление: клиент должен перечитать состояние и
	// повторить действие осознанно. Автоповторов нет — повтор "добавь очко"
	// после чужого коммита удвоил бы счёт.
	ErrConcurrentModification = errors.New("match was modified concurrently, reload and retry")

	// Терминальные состояния
	ErrMatchFinished = errors.New("match is already completed or cancelled")

	// Аутентификация
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
)
