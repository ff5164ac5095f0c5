package entity

import "time"

// Category agrupa productos (Electronics, Raw Materials, ...). Name es único.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnitOfMeasure unidad de stock o de compra (PCS, KG, BOX). Code es único.
type UnitOfMeasure struct {
	ID          string
	Code        string
	Name        string
	Description string
	CreatedAt   time.Time
}
