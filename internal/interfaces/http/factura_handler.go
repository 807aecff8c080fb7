package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/workflow"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// FacturaHandler maneja el ciclo de vida de facturas: ingesta, listados,
// detalle, transiciones del workflow y pagos.
type FacturaHandler struct {
	ingreso   *workflow.IngresoUseCase
	engine    *workflow.Engine
	facturas  repository.FacturaRepository
	pagos     repository.PagoRepository
	auditoria repository.AuditoriaRepository
}

// NewFacturaHandler construye el handler.
func NewFacturaHandler(
	ingreso *workflow.IngresoUseCase,
	engine *workflow.Engine,
	facturas repository.FacturaRepository,
	pagos repository.PagoRepository,
	auditoria repository.AuditoriaRepository,
) *FacturaHandler {
	return &FacturaHandler{
		ingreso:   ingreso,
		engine:    engine,
		facturas:  facturas,
		pagos:     pagos,
		auditoria: auditoria,
	}
}

// Ingresar recibe una factura del pipeline de ingesta, la clasifica y la
// persiste en revisión o cuarentena.
func (h *FacturaHandler) Ingresar(c *fiber.Ctx) error {
	var in dto.IngresarFacturaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.GrupoID == nil {
		in.GrupoID = GetGrupoCtx(c)
	}
	f, err := h.ingreso.Ingresar(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toFacturaResponse(f))
}

// List devuelve facturas dentro del alcance de la petición, con filtro
// opcional de estado.
func (h *FacturaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filtro := repository.FacturaFiltro{Limit: page.Limit, Offset: page.Offset}
	if alcance := GetAlcance(c); !alcance.Global {
		filtro.GrupoIDs = alcance.GrupoIDs
	}
	if s := c.Query("estado"); s != "" {
		estado := entity.EstadoFactura(s)
		if !entity.EstadoValido(estado) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION",
				Message: fmt.Sprintf("estado desconocido: %s", s)})
		}
		filtro.Estado = &estado
	}

	items, err := h.facturas.List(filtro)
	if err != nil {
		return responderError(c, err)
	}
	out := make([]*dto.FacturaResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFacturaResponse(f))
	}
	return c.JSON(out)
}

// GetByID devuelve la factura con pagos, saldo y trazabilidad, si cae dentro
// del alcance de la petición.
func (h *FacturaHandler) GetByID(c *fiber.Ctx) error {
	f, err := h.cargarEnAlcance(c)
	if err != nil {
		return responderError(c, err)
	}

	pagos, err := h.pagos.ListByFactura(f.ID)
	if err != nil {
		return responderError(c, err)
	}
	auditoria, err := h.auditoria.ListByFactura(f.ID)
	if err != nil {
		return responderError(c, err)
	}

	pagado := decimal.Zero
	detalle := dto.FacturaDetalleResponse{FacturaResponse: *toFacturaResponse(f)}
	for _, p := range pagos {
		pagado = pagado.Add(p.Monto)
		detalle.Pagos = append(detalle.Pagos, dto.PagoResponse{
			ID:            p.ID,
			FacturaID:     p.FacturaID,
			Monto:         p.Monto,
			Referencia:    p.Referencia,
			Metodo:        p.Metodo,
			RegistradoPor: p.RegistradoPor,
			RegistradoEn:  p.RegistradoEn,
		})
	}
	detalle.SaldoPendiente = f.TotalAPagar.Sub(pagado)
	for _, a := range auditoria {
		detalle.Auditoria = append(detalle.Auditoria, dto.AuditoriaResponse{
			EstadoOrigen:  string(a.EstadoOrigen),
			EstadoDestino: string(a.EstadoDestino),
			Actor:         a.Actor,
			RolActor:      a.RolActor,
			Nota:          a.Nota,
			CreatedAt:     a.CreatedAt,
		})
	}
	return c.JSON(detalle)
}

// Transicion ejecuta un evento del workflow sobre la factura. El evento llega
// en la ruta; la tabla de transiciones decide si aplica.
func (h *FacturaHandler) Transicion(evento entity.EventoWorkflow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := h.cargarEnAlcance(c)
		if err != nil {
			return responderError(c, err)
		}
		var in dto.TransicionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
			}
		}
		out, err := h.engine.Transicionar(c.Context(), f.ID, evento, ActorDe(c), workflow.Payload{
			Nota:                 in.Nota,
			NotificarResponsable: in.NotificarResponsable,
			NotificarProveedor:   in.NotificarProveedor,
		})
		if err != nil {
			return responderError(c, err)
		}
		return c.JSON(toFacturaResponse(out))
	}
}

// RegistrarPago registra un abono sobre una factura validada.
func (h *FacturaHandler) RegistrarPago(c *fiber.Ctx) error {
	f, err := h.cargarEnAlcance(c)
	if err != nil {
		return responderError(c, err)
	}
	var in dto.RegistrarPagoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pago, factura, err := h.engine.RegistrarPago(c.Context(), f.ID, in, ActorDe(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"pago": dto.PagoResponse{
			ID:            pago.ID,
			FacturaID:     pago.FacturaID,
			Monto:         pago.Monto,
			Referencia:    pago.Referencia,
			Metodo:        pago.Metodo,
			RegistradoPor: pago.RegistradoPor,
			RegistradoEn:  pago.RegistradoEn,
		},
		"factura": toFacturaResponse(factura),
	})
}

// cargarEnAlcance obtiene la factura y verifica que el actor pueda verla: las
// de cuarentena exigen rol elevado; las demás deben caer en el alcance.
func (h *FacturaHandler) cargarEnAlcance(c *fiber.Ctx) (*entity.Factura, error) {
	f, err := h.facturas.GetByID(c.Params("id"))
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNoEncontrado, c.Params("id"))
	}
	if f.EnCuarentena() {
		if !entity.EsRolElevado(GetRol(c)) {
			return nil, fmt.Errorf("%w: cuarentena", domain.ErrAlcanceDenegado)
		}
		return f, nil
	}
	if f.GrupoID != nil && !GetAlcance(c).Incluye(*f.GrupoID) {
		return nil, fmt.Errorf("%w: factura fuera del contexto", domain.ErrAlcanceDenegado)
	}
	return f, nil
}

func toFacturaResponse(f *entity.Factura) *dto.FacturaResponse {
	return &dto.FacturaResponse{
		ID:             f.ID,
		NumeroFactura:  f.NumeroFactura,
		CUFE:           f.CUFE,
		NitEmisor:      f.NitEmisor,
		NombreEmisor:   f.NombreEmisor,
		Subtotal:       f.Subtotal,
		Impuestos:      f.Impuestos,
		Total:          f.Total,
		TotalAPagar:    f.TotalAPagar,
		Moneda:         f.Moneda,
		Estado:         string(f.Estado),
		Aprobador:      f.Aprobador,
		TipoAprobacion: f.TipoAprobacion,
		MotivoRechazo:  f.MotivoRechazo,
		GrupoID:        f.GrupoID,
		ResponsableID:  f.ResponsableID,
		CreatedAt:      f.CreatedAt,
	}
}
