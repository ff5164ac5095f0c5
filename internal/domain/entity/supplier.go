package entity

import "time"

// Supplier proveedor (informativo; las recepciones lo referencian por nombre).
type Supplier struct {
	ID        string
	Code      string
	Name      string
	Email     string
	CreatedAt time.Time
}
