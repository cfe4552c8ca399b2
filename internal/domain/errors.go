package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation входные данные не прошли проверку
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition запрошенный переход статуса недопустим
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound запрошенная сущность не найдена
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable хранилище временно недоступно (можно повторить запрос)
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrAlreadyTerminal запись уже в конечном статусе
	ErrAlreadyTerminal = errors.New("appointment is already in a terminal status")

	// ErrConflictPersistence часть каскадных отклонений не удалось сохранить
	ErrConflictPersistence = errors.New("conflict resolution partially failed")
)

// FieldError ошибка проверки одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError список ошибок проверки полей
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError создает ошибку с одним полем
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add добавляет ошибку поля
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors возвращает true, если есть хотя бы одна ошибка поля
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil возвращает nil, если ошибок нет (удобно в конце проверки)
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidTransitionError переход из текущего статуса по событию недопустим
// To пуст, если событие не ведёт ни в какой статус
type InvalidTransitionError struct {
	From  AppointmentStatus
	Event string
	To    AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("%s: event %q is not allowed in status %s", ErrInvalidTransition, e.Event, e.From)
	}
	return fmt.Sprintf("%s: %s -> %s (event %q)", ErrInvalidTransition, e.From, e.To, e.Event)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
