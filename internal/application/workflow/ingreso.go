package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturas-pro/internal/application/asignacion"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
	"github.com/tu-usuario/facturas-pro/pkg/dian"
	"github.com/tu-usuario/facturas-pro/pkg/logger"
)

// IngresoUseCase es el punto de entrada del pipeline de ingesta: normaliza el
// NIT emisor, resuelve la asignación, persiste la factura (en revisión o en
// cuarentena) y evalúa la auto-aprobación.
type IngresoUseCase struct {
	grupos       repository.GrupoRepository
	facturas     repository.FacturaRepository
	clasificador *asignacion.Clasificador
	engine       *Engine
	log          *logger.Logger
}

// NewIngresoUseCase construye el caso de uso de ingesta.
func NewIngresoUseCase(
	grupos repository.GrupoRepository,
	facturas repository.FacturaRepository,
	clasificador *asignacion.Clasificador,
	engine *Engine,
	log *logger.Logger,
) *IngresoUseCase {
	return &IngresoUseCase{
		grupos:       grupos,
		facturas:     facturas,
		clasificador: clasificador,
		engine:       engine,
		log:          log,
	}
}

// Ingresar procesa una factura entrante. grupo_id nulo en la factura creada
// equivale a cuarentena: el NIT no tiene asignación resoluble.
func (uc *IngresoUseCase) Ingresar(ctx context.Context, in dto.IngresarFacturaRequest) (*entity.Factura, error) {
	if strings.TrimSpace(in.NumeroFactura) == "" {
		return nil, fmt.Errorf("%w: numero_factura", domain.ErrCampoRequerido)
	}
	if !in.TotalAPagar.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: total_a_pagar debe ser mayor que cero", domain.ErrCampoRequerido)
	}
	nit, err := dian.Normalizar(in.NitEmisor)
	if err != nil {
		return nil, err
	}

	activos, err := uc.grupos.ListActivos()
	if err != nil {
		return nil, err
	}
	j := tenancy.NuevaJerarquia(activos)

	if in.GrupoID != nil && !j.Existe(*in.GrupoID) {
		return nil, fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, *in.GrupoID)
	}

	cl, err := uc.clasificador.Clasificar(j, nit, in.GrupoID)
	if err != nil {
		return nil, err
	}

	moneda := in.Moneda
	if moneda == "" {
		moneda = "COP"
	}
	now := time.Now()
	f := &entity.Factura{
		ID:            uuid.New().String(),
		NumeroFactura: strings.TrimSpace(in.NumeroFactura),
		CUFE:          in.CUFE,
		NitEmisor:     nit,
		NombreEmisor:  strings.TrimSpace(in.NombreEmisor),
		Subtotal:      in.Subtotal,
		Impuestos:     in.Impuestos,
		Total:         in.Total,
		TotalAPagar:   in.TotalAPagar,
		Moneda:        moneda,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if cl.EnCuarentena {
		f.Estado = entity.EstadoCuarentena
	} else {
		f.Estado = entity.EstadoEnRevision
		f.GrupoID = cl.GrupoID
		responsableID := cl.ResponsableID
		f.ResponsableID = &responsableID
	}

	if err := uc.facturas.Create(f); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("factura_id", f.ID).
		Str("nit", nit).
		Str("estado", string(f.Estado)).
		Msg("factura ingresada")

	if !cl.EnCuarentena {
		auto, err := uc.engine.IntentarAprobacionAutomatica(ctx, f, cl.Asignacion)
		if err != nil {
			// la factura ya quedó en revisión; el fallo de la regla no la pierde
			uc.log.Error().Err(err).Str("factura_id", f.ID).Msg("fallo evaluando auto-aprobación")
		} else if auto {
			f.Estado = entity.EstadoAprobadaAuto
			f.Aprobador = entity.ActorSistema
			f.TipoAprobacion = entity.AprobacionAutomatica
		}
	}
	return f, nil
}
