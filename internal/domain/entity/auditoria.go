package entity

import "time"

// AuditoriaWorkflow es una entrada del log append-only de transiciones.
// Se escribe en la misma transacción que el cambio de estado; nunca se edita.
type AuditoriaWorkflow struct {
	ID            string
	FacturaID     string
	EstadoOrigen  EstadoFactura
	EstadoDestino EstadoFactura
	Actor         string
	RolActor      string
	Nota          string
	CreatedAt     time.Time
}
