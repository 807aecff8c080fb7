package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

// PagoRepository define el puerto de persistencia para Pago.
type PagoRepository interface {
	// Create persiste el pago. La unicidad global de la referencia la impone
	// el constraint de DB; una violación se retorna como
	// domain.ErrReferenciaDuplicada.
	Create(p *entity.Pago) error
	ListByFactura(facturaID string) ([]*entity.Pago, error)
	// TotalPagado devuelve la suma de pagos registrados de la factura.
	TotalPagado(facturaID string) (decimal.Decimal, error)
}
