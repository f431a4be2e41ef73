package api

import "fmt"

// FallbackMessage is used when a non-success response carries no usable
// message field. The portal surfaces errors to users in French.
const FallbackMessage = "Une erreur est survenue"

// Error is the uniform failure shape for responses with a non-success HTTP
// status. Data holds the raw payload: a decoded JSON value when the response
// was JSON (nil if it failed to parse), otherwise the body text.
type Error struct {
	Status  int
	Message string
	Data    any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}
