package workflow_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/facturas-pro/internal/application/ports"
	"github.com/tu-usuario/facturas-pro/internal/application/workflow"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria para los tests del motor. No simulan aislamiento real de
// transacciones; el compare-and-swap de UpdateEstado basta para los escenarios
// de concurrencia que interesan aquí.
// ──────────────────────────────────────────────────────────────────────────────

type fakeFacturas struct {
	mu sync.Mutex
	m  map[string]*entity.Factura
	// alLeer se invoca tras GetByID; permite simular a un segundo operador
	// que cambia el estado entre la lectura y el commit.
	alLeer func(f *entity.Factura)
	// fallosCAS fuerza esa cantidad de fallos espurios de UpdateEstado.
	fallosCAS int
}

func newFakeFacturas() *fakeFacturas {
	return &fakeFacturas{m: make(map[string]*entity.Factura)}
}

func (r *fakeFacturas) Create(f *entity.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *f
	r.m[f.ID] = &copia
	return nil
}

func (r *fakeFacturas) GetByID(id string) (*entity.Factura, error) {
	r.mu.Lock()
	f, ok := r.m[id]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	copia := *f
	if r.alLeer != nil {
		r.alLeer(&copia)
	}
	return &copia, nil
}

func (r *fakeFacturas) UpdateEstado(f *entity.Factura, estadoEsperado entity.EstadoFactura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallosCAS > 0 {
		r.fallosCAS--
		return domain.ErrModificacionConcurrente
	}
	actual, ok := r.m[f.ID]
	if !ok {
		return domain.ErrNoEncontrado
	}
	if actual.Estado != estadoEsperado {
		return domain.ErrModificacionConcurrente
	}
	copia := *f
	r.m[f.ID] = &copia
	return nil
}

func (r *fakeFacturas) List(repository.FacturaFiltro) ([]*entity.Factura, error) { return nil, nil }
func (r *fakeFacturas) ListCuarentena(int, int) ([]*entity.Factura, error) { return nil, nil }
func (r *fakeFacturas) ResumenCuarentena() ([]*repository.CuarentenaResumenItem, error) {
	return nil, nil
}

type fakePagos struct {
	mu          sync.Mutex
	porFactura  map[string][]*entity.Pago
	referencias map[string]bool
}

func newFakePagos() *fakePagos {
	return &fakePagos{porFactura: make(map[string][]*entity.Pago), referencias: make(map[string]bool)}
}

func (r *fakePagos) Create(p *entity.Pago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.referencias[p.Referencia] {
		return fmt.Errorf("%w: %s", domain.ErrReferenciaDuplicada, p.Referencia)
	}
	r.referencias[p.Referencia] = true
	copia := *p
	r.porFactura[p.FacturaID] = append(r.porFactura[p.FacturaID], &copia)
	return nil
}

func (r *fakePagos) ListByFactura(facturaID string) ([]*entity.Pago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.porFactura[facturaID], nil
}

func (r *fakePagos) TotalPagado(facturaID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, p := range r.porFactura[facturaID] {
		total = total.Add(p.Monto)
	}
	return total, nil
}

type fakeAuditoria struct {
	mu       sync.Mutex
	entradas []*entity.AuditoriaWorkflow
}

func (r *fakeAuditoria) Append(a *entity.AuditoriaWorkflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *a
	r.entradas = append(r.entradas, &copia)
	return nil
}

func (r *fakeAuditoria) ListByFactura(facturaID string) ([]*entity.AuditoriaWorkflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditoriaWorkflow
	for _, a := range r.entradas {
		if a.FacturaID == facturaID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeResponsables struct {
	m map[string]*entity.Responsable
}

func (r *fakeResponsables) Create(*entity.Responsable) error { return nil }
func (r *fakeResponsables) Update(*entity.Responsable) error { return nil }
func (r *fakeResponsables) GetByID(id string) (*entity.Responsable, error) {
	return r.m[id], nil
}
func (r *fakeResponsables) GetByUsername(u string) (*entity.Responsable, error) {
	for _, resp := range r.m {
		if resp.Username == u {
			return resp, nil
		}
	}
	return nil, nil
}
func (r *fakeResponsables) List(int, int) ([]*entity.Responsable, error) { return nil, nil }
func (r *fakeResponsables) ListByGrupo(string) ([]*entity.Responsable, error) { return nil, nil }
func (r *fakeResponsables) SetGrupos(string, []string) error { return nil }
func (r *fakeResponsables) Deactivate(string) error { return nil }

type fakeAsignaciones struct {
	porNit map[string][]*entity.AsignacionNit
}

func (r *fakeAsignaciones) Create(*entity.AsignacionNit) error { return nil }
func (r *fakeAsignaciones) GetByID(string) (*entity.AsignacionNit, error) { return nil, nil }
func (r *fakeAsignaciones) ListActivasPorNit(nit string) ([]*entity.AsignacionNit, error) {
	var out []*entity.AsignacionNit
	for _, a := range r.porNit[nit] {
		if a.Activo {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *fakeAsignaciones) FindPorClave(string, string, *string) (*entity.AsignacionNit, error) {
	return nil, nil
}
func (r *fakeAsignaciones) List(int, int) ([]*entity.AsignacionNit, error) { return nil, nil }
func (r *fakeAsignaciones) Reactivate(string) error { return nil }
func (r *fakeAsignaciones) Deactivate(string) error { return nil }
func (r *fakeAsignaciones) Update(*entity.AsignacionNit) error { return nil }

type fakeGrupos struct {
	m map[string]*entity.Grupo
}

func (r *fakeGrupos) Create(*entity.Grupo) error { return nil }
func (r *fakeGrupos) Update(*entity.Grupo) error { return nil }
func (r *fakeGrupos) GetByID(id string) (*entity.Grupo, error) {
	return r.m[id], nil
}
func (r *fakeGrupos) GetByCodigo(string) (*entity.Grupo, error) { return nil, nil }
func (r *fakeGrupos) ListActivos() ([]*entity.Grupo, error) {
	var out []*entity.Grupo
	for _, g := range r.m {
		if g.Activo {
			out = append(out, g)
		}
	}
	return out, nil
}
func (r *fakeGrupos) Deactivate(string) error { return nil }
func (r *fakeGrupos) TieneReferenciasActivas(string) (bool, error) { return false, nil }

// fakeTx ejecuta el callback directamente sobre los fakes.
type fakeTx struct {
	facturas  *fakeFacturas
	pagos     *fakePagos
	auditoria *fakeAuditoria
}

func (t *fakeTx) Run(_ context.Context, fn func(
	repository.FacturaRepository,
	repository.PagoRepository,
	repository.AuditoriaRepository,
) error) error {
	return fn(t.facturas, t.pagos, t.auditoria)
}

var _ workflow.TxRunner = (*fakeTx)(nil)

type fakeAnalizador struct {
	ev  *ports.EvaluacionPatron
	err error
}

func (a *fakeAnalizador) Evaluar(context.Context, string, decimal.Decimal) (*ports.EvaluacionPatron, error) {
	return a.ev, a.err
}

type fakeNotificador struct {
	enviadas []ports.NotificacionDevolucion
}

func (n *fakeNotificador) NotificarDevolucion(_ context.Context, nd ports.NotificacionDevolucion) error {
	n.enviadas = append(n.enviadas, nd)
	return nil
}

// nota de devolución válida, dentro del rango 10-1000
var notaValida = strings.Repeat("observación ", 3)
