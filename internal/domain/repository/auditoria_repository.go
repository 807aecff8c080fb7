package repository

import "github.com/tu-usuario/facturas-pro/internal/domain/entity"

// AuditoriaRepository define el puerto del log append-only de transiciones.
type AuditoriaRepository interface {
	Append(a *entity.AuditoriaWorkflow) error
	ListByFactura(facturaID string) ([]*entity.AuditoriaWorkflow, error)
}
