package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset están fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
