package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrActorNotFoundInContext = fmt.Errorf("актор не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// HttpError — ошибка уровня приложения с HTTP-кодом и сообщением для клиента.
// Err хранит техническую причину и в ответ клиенту не попадает.
type HttpError struct {
	Code    int               `json:"-"`
	Message string            `json:"message"`
	Err     error             `json:"-"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]string) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// Таксономия ошибок ядра. Каждый конструктор отвечает за свой HTTP-код,
// чтобы контроллерам не приходилось его угадывать.

// NewValidationError — отсутствует или некорректно обязательное поле,
// недопустимая цель пересылки, попытка переслать в собственную секцию.
func NewValidationError(format string, args ...interface{}) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewForbiddenError — предикат доступа вернул false.
func NewForbiddenError(message string) *HttpError {
	return &HttpError{Code: http.StatusForbidden, Message: message}
}

// NewNotFoundError — запись либо активная справочная строка не найдена.
func NewNotFoundError(message string) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Message: message}
}

// NewInvalidStateError — переход недопустим для текущего статуса записи.
func NewInvalidStateError(message string) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message}
}

// NewConfigurationError — секция учёта записей не может быть определена.
// Это пробел в развёртывании, а не ошибка вызывающего, поэтому код отличен от 500.
func NewConfigurationError(message string) *HttpError {
	return &HttpError{Code: http.StatusServiceUnavailable, Message: message}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message}
}

func IsHttpCode(err error, code int) bool {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code == code
	}
	return false
}

func IsValidation(err error) bool    { return IsHttpCode(err, http.StatusBadRequest) }
func IsForbidden(err error) bool     { return IsHttpCode(err, http.StatusForbidden) }
func IsNotFound(err error) bool      { return IsHttpCode(err, http.StatusNotFound) }
func IsInvalidState(err error) bool  { return IsHttpCode(err, http.StatusConflict) }
func IsConfiguration(err error) bool { return IsHttpCode(err, http.StatusServiceUnavailable) }
