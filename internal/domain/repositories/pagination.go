package repositories

const (
	// DefaultPageSize é o tamanho de página padrão
	DefaultPageSize = 20
	// MaxPageSize é o maior tamanho de página aceito
	MaxPageSize = 100
)

// PageRequest descreve a página solicitada (Page começa em 1)
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize aplica os limites de página e tamanho
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset retorna o deslocamento para LIMIT/OFFSET
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Page é uma página de resultados com o total de itens da consulta
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int64
}

// NewPage monta uma página a partir da requisição normalizada
func NewPage[T any](req PageRequest, items []T, total int64) Page[T] {
	req = req.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: req.Page, PageSize: req.PageSize, Total: total}
}

// TotalPages retorna o número de páginas (mínimo 1)
func (p Page[T]) TotalPages() int {
	if p.Total <= 0 || p.PageSize <= 0 {
		return 1
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// HasPrev indica se existe página anterior
func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

// HasNext indica se existe próxima página
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}

// PrevNum retorna o número da página anterior, ou 0
func (p Page[T]) PrevNum() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

// NextNum retorna o número da próxima página, ou 0
func (p Page[T]) NextNum() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}
