package auth

import "net/http"

// Code tags every recognized authentication failure. The set is closed: any
// unexpected failure collapses into CodeInternal.
type Code string

const (
	CodeEmailInUse         Code = "email-in-use"
	CodeInvalidEmail       Code = "invalid-email"
	CodeWeakPassword       Code = "weak-password"
	CodeInvalidCredentials Code = "invalid-credentials"
	CodeInternal           Code = "internal"
)

// Error is a tagged auth failure with a fixed user-facing message.
type Error struct {
	Code Code
}

func (e *Error) Error() string {
	return string(e.Code)
}

// Message is the text shown inline on the login/register form. One fixed
// string per tag; no error detail leaks through.
func (e *Error) Message() string {
	switch e.Code {
	case CodeEmailInUse:
		return "No se pudo crear la cuenta. Puede que el email ya esté en uso."
	case CodeInvalidEmail:
		return "El email no tiene un formato válido."
	case CodeWeakPassword:
		return "La contraseña debe tener al menos 6 caracteres."
	case CodeInvalidCredentials:
		return "Email o contraseña incorrectos. Por favor, inténtalo de nuevo."
	}
	return "Algo salió mal. Inténtalo de nuevo más tarde."
}

// Status maps the tag to an HTTP status code.
func (e *Error) Status() int {
	switch e.Code {
	case CodeEmailInUse:
		return http.StatusConflict
	case CodeInvalidEmail, CodeWeakPassword:
		return http.StatusBadRequest
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func errCode(code Code) *Error {
	return &Error{Code: code}
}
