package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInternalError      = "внутренняя ошибка сервера"
	msgServiceUnavailable = "хранилище временно недоступно, повторите запрос позже"
	msgTooManyRequests    = "слишком много запросов"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// DecodeJSON декодирует тело запроса; пустое тело считается ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondNoContent отправляет 204 без тела
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError отправляет ошибку с кодом и сообщением
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorWithDetails(w, status, message, nil)
}

// RespondErrorWithDetails отправляет ошибку со списком ошибок полей
func RespondErrorWithDetails(w http.ResponseWriter, status int, message string, details []domain.FieldError) {
	RespondJSON(w, status, ErrorResponse{
		Code:    status,
		Message: message,
		Details: details,
	})
}

// RespondBadRequest отправляет 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound отправляет 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondTooManyRequests отправляет 429
func RespondTooManyRequests(w http.ResponseWriter) {
	RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
}

// RespondServiceUnavailable отправляет 503
func RespondServiceUnavailable(w http.ResponseWriter) {
	RespondError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
}

// RespondInternalError отправляет 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondRejected отправляет 400 для ошибок проверки и недопустимых переходов
// Поля ValidationError и статусы перехода попадают в details
func RespondRejected(w http.ResponseWriter, message string, err error) {
	RespondErrorWithDetails(w, http.StatusBadRequest, message, Details(err))
}

// Details извлекает список ошибок полей из ошибки
func Details(err error) []domain.FieldError {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}

	var terr *domain.InvalidTransitionError
	if errors.As(err, &terr) {
		msg := fmt.Sprintf("event %q is not allowed in status %s", terr.Event, terr.From)
		if terr.To != "" {
			msg = fmt.Sprintf("transition %s -> %s is not allowed", terr.From, terr.To)
		}
		return []domain.FieldError{{Field: "status", Message: msg}}
	}

	return nil
}

// IsRejected ошибка входных данных или недопустимого перехода (400)
func IsRejected(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidTransition)
}

// IsUnavailable временная недоступность хранилища (503)
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrStoreUnavailable)
}
