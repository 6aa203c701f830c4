package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
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

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientStockResponse cuerpo de error cuando el libro rechaza una salida.
// Lines trae una entrada por cada línea sin stock suficiente.
type InsufficientStockResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Lines   []InsufficientStockLine `json:"lines"`
}

// InsufficientStockLine detalle de una línea rechazada.
type InsufficientStockLine struct {
	ItemID    string `json:"item_id"`
	StorageID string `json:"storage_id"`
	Available int64  `json:"available"`
	Requested int64  `json:"requested"`
}
