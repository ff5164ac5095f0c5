package dto

import "github.com/shopspring/decimal"

// CreateWarehouseRequest entrada para crear una bodega. Code es la clave natural.
type CreateWarehouseRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateCategoryRequest entrada para crear una categoría (Name único).
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateUnitRequest entrada para crear una unidad de medida (Code único).
type CreateUnitRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateSupplierRequest entrada para crear un proveedor (Code único).
type CreateSupplierRequest struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateProductRequest entrada para crear un producto. Cost inicia en 0 y lo mueven las recepciones.
type CreateProductRequest struct {
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	CategoryID      string          `json:"category_id"`
	StockUnitID     string          `json:"stock_unit_id"`
	PurchaseUnitID  string          `json:"purchase_unit_id"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	ReorderQuantity decimal.Decimal `json:"reorder_quantity"`
}

// EnsureUserRequest entrada para crear (o reutilizar) un usuario por email.
type EnsureUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsStaff  bool   `json:"is_staff"`
}
