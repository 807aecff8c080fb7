package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

// FacturaFiltro acota un listado de facturas. GrupoIDs nil significa vista
// global (solo alcanzable para roles elevados, validado aguas arriba por el
// filtro de alcance); vacío no nulo significa "ningún grupo" y no retorna filas.
type FacturaFiltro struct {
	GrupoIDs []string
	Estado   *entity.EstadoFactura
	Limit    int
	Offset   int
}

// CuarentenaResumenItem es una fila del agregado de cuarentena por NIT emisor.
// Es una vista derivada y recomputable; nunca fuente de verdad.
type CuarentenaResumenItem struct {
	NitEmisor         string
	NombreEmisor      string
	Cantidad          int
	ImpactoFinanciero decimal.Decimal // suma de total_a_pagar
}

// FacturaRepository define el puerto de persistencia para Factura.
type FacturaRepository interface {
	Create(f *entity.Factura) error
	GetByID(id string) (*entity.Factura, error)
	// UpdateEstado aplica el cambio de estado con compare-and-swap: el UPDATE
	// exige que el estado actual en DB sea estadoEsperado. Si ninguna fila
	// coincide retorna domain.ErrModificacionConcurrente.
	UpdateEstado(f *entity.Factura, estadoEsperado entity.EstadoFactura) error
	List(filtro FacturaFiltro) ([]*entity.Factura, error)
	// ListCuarentena devuelve las facturas en cuarentena (grupo_id IS NULL).
	ListCuarentena(limit, offset int) ([]*entity.Factura, error)
	// ResumenCuarentena agrega las facturas en cuarentena por NIT emisor.
	ResumenCuarentena() ([]*CuarentenaResumenItem, error)
}
