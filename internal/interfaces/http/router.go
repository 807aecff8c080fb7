package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/asignacion"
	"github.com/tu-usuario/facturas-pro/internal/application/auth"
	"github.com/tu-usuario/facturas-pro/internal/application/usecase"
	"github.com/tu-usuario/facturas-pro/internal/application/workflow"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	GrupoUC       *usecase.GrupoUseCase
	ResponsableUC *usecase.ResponsableUseCase
	AsignacionUC  *asignacion.UseCase
	Resolver      *asignacion.Resolver
	Clasificador  *asignacion.Clasificador
	Ingreso       *workflow.IngresoUseCase
	Engine        *workflow.Engine
	Facturas      repository.FacturaRepository
	Pagos         repository.PagoRepository
	Auditoria     repository.AuditoriaRepository
	Responsables  repository.ResponsableRepository
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Todo lo que filtra por alcance resuelve primero el contexto de grupo
	// (cabecera X-Grupo-Id) contra la jerarquía y las membresías del actor.
	tenant := TenantMiddleware(deps.GrupoUC, deps.Responsables)

	// Grupos (solo administración)
	grupos := protected.Group("/grupos", RequireRol(entity.RolAdmin, entity.RolSuperadmin))
	grupoHandler := NewGrupoHandler(deps.GrupoUC)
	grupos.Post("/", grupoHandler.Create)
	grupos.Get("/", grupoHandler.List)
	grupos.Get("/:id", grupoHandler.GetByID)
	grupos.Put("/:id", grupoHandler.Update)
	grupos.Delete("/:id", grupoHandler.Deactivate)

	// Responsables (solo administración)
	responsables := protected.Group("/responsables", RequireRol(entity.RolAdmin, entity.RolSuperadmin))
	responsableHandler := NewResponsableHandler(deps.ResponsableUC)
	responsables.Post("/", responsableHandler.Create)
	responsables.Get("/", responsableHandler.List)
	responsables.Get("/:id", responsableHandler.GetByID)
	responsables.Put("/:id/grupos", responsableHandler.SetGrupos)
	responsables.Delete("/:id", responsableHandler.Deactivate)

	// Asignaciones NIT -> responsable (solo administración)
	asignaciones := protected.Group("/asignaciones", RequireRol(entity.RolAdmin, entity.RolSuperadmin), tenant)
	asignacionHandler := NewAsignacionHandler(deps.AsignacionUC)
	asignaciones.Post("/", asignacionHandler.Create)
	asignaciones.Post("/importar", asignacionHandler.Importar)
	asignaciones.Get("/", asignacionHandler.List)
	asignaciones.Delete("/:id", asignacionHandler.Deactivate)

	// Utilidades de NIT: validación de formato y resolución en seco
	nits := protected.Group("/nits")
	nitHandler := NewNitHandler(deps.Resolver)
	nits.Get("/validar", nitHandler.Validar)
	nits.Get("/resolver", tenant, nitHandler.Resolver)

	// Facturas (filtradas por alcance)
	facturas := protected.Group("/facturas", tenant)
	facturaHandler := NewFacturaHandler(deps.Ingreso, deps.Engine, deps.Facturas, deps.Pagos, deps.Auditoria)
	facturas.Post("/", facturaHandler.Ingresar)
	facturas.Get("/", facturaHandler.List)
	facturas.Get("/:id", facturaHandler.GetByID)
	facturas.Post("/:id/aprobar", facturaHandler.Transicion(entity.EventoAprobar))
	facturas.Post("/:id/rechazar", facturaHandler.Transicion(entity.EventoRechazar))
	facturas.Post("/:id/validar", facturaHandler.Transicion(entity.EventoValidar))
	facturas.Post("/:id/devolver", facturaHandler.Transicion(entity.EventoDevolver))
	facturas.Post("/:id/reenviar", facturaHandler.Transicion(entity.EventoReenviar))
	facturas.Post("/:id/pagos", facturaHandler.RegistrarPago)

	// Cuarentena (triage, solo administración)
	cuarentena := protected.Group("/cuarentena", RequireRol(entity.RolAdmin, entity.RolSuperadmin))
	cuarentenaHandler := NewCuarentenaHandler(deps.Facturas, deps.Clasificador, deps.Engine)
	cuarentena.Get("/", cuarentenaHandler.List)
	cuarentena.Get("/resumen", cuarentenaHandler.Resumen)
	cuarentena.Post("/:id/reasignar", cuarentenaHandler.Reasignar)
}
