package entity

import "time"

// Warehouse representa una bodega o ubicación de stock. Code es único (WH-001).
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
