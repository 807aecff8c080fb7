package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pago es un abono a una factura validada. La referencia se guarda en
// mayúsculas y es única a nivel global (constraint en DB), no por factura.
type Pago struct {
	ID            string
	FacturaID     string
	Monto         decimal.Decimal
	Referencia    string
	Metodo        string
	RegistradoPor string
	RegistradoEn  time.Time
}
