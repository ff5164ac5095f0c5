package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("credenciales inválidas")

	// Libro de existencias y documentos de movimiento.
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidReservation = errors.New("reserva inválida")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrDocumentLocked     = errors.New("documento bloqueado para edición")
	ErrStaleQuantity      = errors.New("cantidad actual desactualizada")
)

// ItemError identifica la línea de un documento que no pasó la validación y la regla incumplida.
// Envuelve uno de los errores de dominio: usar errors.Is(err, domain.ErrInsufficientStock).
type ItemError struct {
	Index     int // posición de la línea dentro del documento (base 0)
	ItemID    string
	ProductID string
	Rule      string
	Err       error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("línea %d (producto %s): %s: %v", e.Index, e.ProductID, e.Rule, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// AsItemError extrae el ItemError de una cadena de errores, si existe.
func AsItemError(err error) (*ItemError, bool) {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
