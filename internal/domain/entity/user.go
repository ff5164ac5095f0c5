package entity

import "time"

// Roles conocidos.
const (
	RoleInventoryManager = "inventory_manager"
	RoleWarehouseStaff   = "warehouse_staff"
)

// User es la identidad que se adjunta a documentos (created_by) y jobs (triggered_by).
// El núcleo de inventario solo almacena la referencia; no valida la identidad.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // bcrypt, nunca plano
	Role         string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
