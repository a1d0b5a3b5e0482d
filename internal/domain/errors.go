package domain

import "errors"

// Errores de entrada del usuario. Se comparan con errors.Is; el CLI los
// muestra como mensaje y aborta solo la operación en curso.
var (
	ErrInvalidNumber    = errors.New("number out of range 1..25")
	ErrDuplicateNumber  = errors.New("duplicate number")
	ErrInvalidTicket    = errors.New("ticket must have exactly 15 distinct numbers")
	ErrInvalidResult    = errors.New("draw result must have exactly 15 valid numbers")
	ErrUniverseTooSmall = errors.New("universe must have at least 15 numbers")
	ErrInvalidRange     = errors.New("invalid filter range")
	ErrInvalidStrategy  = errors.New("invalid strategy code")
	ErrNoHistory        = errors.New("no historical draws available")
)
