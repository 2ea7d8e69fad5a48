package tests

import (
	"context"
	"testing"
	"time"

	"puntoventa/internal/dto"
	"puntoventa/internal/model"
	"puntoventa/internal/repository"
	"puntoventa/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubCajaRepo is an in-memory CajaRepository for testing.
type stubCajaRepo struct {
	movimientos map[uuid.UUID]*model.MovimientoCaja
	cierres     map[uuid.UUID]*model.CierreCaja
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{
		movimientos: make(map[uuid.UUID]*model.MovimientoCaja),
		cierres:     make(map[uuid.UUID]*model.CierreCaja),
	}
}

func (r *stubCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movimientos[m.ID] = m
	return nil
}

func (r *stubCajaRepo) FindMovimientoByID(_ context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	m, ok := r.movimientos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubCajaRepo) ListMovimientos(_ context.Context, desde, hasta time.Time) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.CreatedAt.Before(desde) || !m.CreatedAt.Before(hasta) {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubCajaRepo) DeleteMovimiento(_ context.Context, id uuid.UUID) error {
	delete(r.movimientos, id)
	return nil
}

func (r *stubCajaRepo) SumMovimientos(_ context.Context, desde, hasta time.Time) (decimal.Decimal, decimal.Decimal, error) {
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, m := range r.movimientos {
		if m.CreatedAt.Before(desde) || !m.CreatedAt.Before(hasta) {
			continue
		}
		if m.Tipo == model.MovimientoIngreso {
			ingresos = ingresos.Add(m.Monto)
		} else {
			egresos = egresos.Add(m.Monto)
		}
	}
	return ingresos, egresos, nil
}

func (r *stubCajaRepo) CreateCierre(_ context.Context, c *model.CierreCaja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.cierres[c.ID] = c
	return nil
}

func (r *stubCajaRepo) FindCierreByID(_ context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	c, ok := r.cierres[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCajaRepo) ListCierres(_ context.Context, _, _ int) ([]model.CierreCaja, int64, error) {
	var out []model.CierreCaja
	for _, c := range r.cierres {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildCajaSvc() (service.CajaService, *stubCajaRepo, *stubVentaRepo) {
	cajaRepo := newStubCajaRepo()
	ventaRepo := newStubVentaRepo()
	return service.NewCajaService(cajaRepo, ventaRepo), cajaRepo, ventaRepo
}

func seedVentaPagada(repo *stubVentaRepo, metodo string, total float64) *model.Venta {
	v := &model.Venta{
		ID:            uuid.New(),
		Folio:         "20260831-9999",
		UsuarioID:     uuid.New(),
		MetodoPago:    metodo,
		Subtotal:      decimal.NewFromFloat(total),
		Total:         decimal.NewFromFloat(total),
		MontoRecibido: decimal.NewFromFloat(total),
		CreatedAt:     time.Now(),
	}
	repo.ventas[v.ID] = v
	return v
}

func seedMovimiento(repo *stubCajaRepo, tipo string, monto float64) *model.MovimientoCaja {
	m := &model.MovimientoCaja{
		ID:          uuid.New(),
		Tipo:        tipo,
		Monto:       decimal.NewFromFloat(monto),
		Descripcion: "seed",
		UsuarioID:   uuid.New(),
		CreatedAt:   time.Now(),
	}
	repo.movimientos[m.ID] = m
	return m
}

// Wide window covering every seeded row regardless of clock.
const (
	desdeAmplio = "2000-01-01"
	hastaAmplio = "2099-12-31"
)

// ── Movimientos ───────────────────────────────────────────────────────────────

func TestRegistrarMovimiento_Ingreso(t *testing.T) {
	svc, cajaRepo, _ := buildCajaSvc()

	resp, err := svc.RegistrarMovimiento(context.Background(), uuid.New(), dto.MovimientoManualRequest{
		Tipo:        model.MovimientoIngreso,
		Monto:       decimal.NewFromFloat(500),
		Descripcion: "Fondo inicial de caja",
	})
	require.NoError(t, err)
	assert.Equal(t, "ingreso", resp.Tipo)
	assert.Equal(t, "500", resp.Monto.String())
	assert.Len(t, cajaRepo.movimientos, 1)
}

func TestRegistrarMovimiento_MontoInvalido(t *testing.T) {
	svc, cajaRepo, _ := buildCajaSvc()

	for _, monto := range []float64{0, -50} {
		_, err := svc.RegistrarMovimiento(context.Background(), uuid.New(), dto.MovimientoManualRequest{
			Tipo:        model.MovimientoEgreso,
			Monto:       decimal.NewFromFloat(monto),
			Descripcion: "Retiro inválido",
		})
		assert.ErrorIs(t, err, service.ErrMontoInvalido)
	}
	assert.Empty(t, cajaRepo.movimientos)
}

func TestRegistrarMovimiento_TipoInvalido(t *testing.T) {
	svc, _, _ := buildCajaSvc()

	_, err := svc.RegistrarMovimiento(context.Background(), uuid.New(), dto.MovimientoManualRequest{
		Tipo:        "ajuste",
		Monto:       decimal.NewFromFloat(100),
		Descripcion: "Tipo desconocido",
	})
	assert.ErrorIs(t, err, service.ErrMontoInvalido)
}

func TestEliminarMovimiento(t *testing.T) {
	svc, cajaRepo, _ := buildCajaSvc()
	m := seedMovimiento(cajaRepo, model.MovimientoEgreso, 200)

	require.NoError(t, svc.EliminarMovimiento(context.Background(), m.ID, uuid.New()))
	assert.Empty(t, cajaRepo.movimientos)

	err := svc.EliminarMovimiento(context.Background(), m.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrMovimientoNoEncontrado)
}

// ── Resumen ───────────────────────────────────────────────────────────────────

func TestResumen_SaldoCaja(t *testing.T) {
	svc, cajaRepo, ventaRepo := buildCajaSvc()

	seedMovimiento(cajaRepo, model.MovimientoIngreso, 1000) // fondo inicial
	seedMovimiento(cajaRepo, model.MovimientoEgreso, 300)   // pago a proveedor
	seedVentaPagada(ventaRepo, model.MetodoEfectivo, 2500)
	seedVentaPagada(ventaRepo, model.MetodoTarjeta, 1800)
	seedVentaPagada(ventaRepo, model.MetodoTransferencia, 700)

	resumen, err := svc.Resumen(context.Background(), dto.CajaFilter{Desde: desdeAmplio, Hasta: hastaAmplio})
	require.NoError(t, err)

	// Only cash moves the physical drawer: 1000 − 300 + 2500
	assert.Equal(t, "3200", resumen.SaldoCaja.String())
	assert.Equal(t, "2500", resumen.VentasEfectivo.String())
	assert.Equal(t, "1800", resumen.VentasTarjeta.String())
	assert.Equal(t, "700", resumen.VentasTransferencia.String())
	assert.Equal(t, "5000", resumen.TotalVentas.String())
	assert.Len(t, resumen.Ingresos, 1)
	assert.Len(t, resumen.Egresos, 1)
}

func TestResumen_ExcluyeVentasAnuladas(t *testing.T) {
	svc, _, ventaRepo := buildCajaSvc()

	seedVentaPagada(ventaRepo, model.MetodoEfectivo, 1000)
	anulada := seedVentaPagada(ventaRepo, model.MetodoEfectivo, 999)
	anulada.Anulada = true

	resumen, err := svc.Resumen(context.Background(), dto.CajaFilter{Desde: desdeAmplio, Hasta: hastaAmplio})
	require.NoError(t, err)
	assert.Equal(t, "1000", resumen.VentasEfectivo.String())
}

// ── Cierre de caja ────────────────────────────────────────────────────────────

func TestCerrarCaja_Cuadrado(t *testing.T) {
	svc, cajaRepo, ventaRepo := buildCajaSvc()

	seedMovimiento(cajaRepo, model.MovimientoIngreso, 500)
	seedMovimiento(cajaRepo, model.MovimientoEgreso, 200)
	seedVentaPagada(ventaRepo, model.MetodoEfectivo, 3000)
	seedVentaPagada(ventaRepo, model.MetodoTarjeta, 1500) // no cuenta para el esperado

	// esperado = 3000 + 500 − 200 = 3300
	resp, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CierreCajaRequest{
		Desde:           desdeAmplio,
		Hasta:           hastaAmplio,
		EfectivoContado: decimal.NewFromFloat(3300),
	})
	require.NoError(t, err)
	assert.Equal(t, "3300", resp.EfectivoEsperado.String())
	assert.Equal(t, "0", resp.Diferencia.String())
	assert.Equal(t, model.CierreCuadrado, resp.Clasificacion)
	assert.Equal(t, "1500", resp.VentasDigital.String())
	assert.Len(t, cajaRepo.cierres, 1)
}

func TestCerrarCaja_Sobrante(t *testing.T) {
	svc, _, ventaRepo := buildCajaSvc()
	seedVentaPagada(ventaRepo, model.MetodoEfectivo, 1000)

	resp, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CierreCajaRequest{
		Desde:           desdeAmplio,
		Hasta:           hastaAmplio,
		EfectivoContado: decimal.NewFromFloat(1050),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CierreSobrante, resp.Clasificacion)
	assert.Equal(t, "50", resp.Diferencia.String())
}

func TestCerrarCaja_FaltanteSeRegistra(t *testing.T) {
	svc, cajaRepo, ventaRepo := buildCajaSvc()
	seedVentaPagada(ventaRepo, model.MetodoEfectivo, 1000)

	// A shortage classifies the closing, it never rejects it
	resp, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CierreCajaRequest{
		Desde:           desdeAmplio,
		Hasta:           hastaAmplio,
		EfectivoContado: decimal.NewFromFloat(900),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CierreFaltante, resp.Clasificacion)
	assert.Equal(t, "-100", resp.Diferencia.String())
	assert.Len(t, cajaRepo.cierres, 1)
}

func TestCerrarCaja_ContadoNegativo(t *testing.T) {
	svc, _, _ := buildCajaSvc()

	_, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CierreCajaRequest{
		Desde:           desdeAmplio,
		Hasta:           hastaAmplio,
		EfectivoContado: decimal.NewFromFloat(-10),
	})
	assert.ErrorIs(t, err, service.ErrMontoInvalido)
}

func TestCerrarCaja_PeriodoInvalido(t *testing.T) {
	svc, _, _ := buildCajaSvc()

	_, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CierreCajaRequest{
		Desde:           "2026-08-31",
		Hasta:           "2026-08-30",
		EfectivoContado: decimal.Zero,
	})
	assert.ErrorIs(t, err, service.ErrPeriodoInvalido)
}

func TestCerrarCaja_PeriodoUnilateralRechazado(t *testing.T) {
	svc, _, _ := buildCajaSvc()

	// Bounds come as a pair: a lone desde is rejected, never silently
	// widened to an open window.
	_, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CierreCajaRequest{
		Desde:           "2026-08-31",
		EfectivoContado: decimal.Zero,
	})
	assert.ErrorIs(t, err, service.ErrPeriodoInvalido)
}

func TestObtenerCierre_NoEncontrado(t *testing.T) {
	svc, _, _ := buildCajaSvc()
	_, err := svc.ObtenerCierre(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrCierreNoEncontrado)
}

func TestCerrarCaja_CierresSuperpuestosPermitidos(t *testing.T) {
	svc, cajaRepo, ventaRepo := buildCajaSvc()
	seedVentaPagada(ventaRepo, model.MetodoEfectivo, 400)

	// Closings are read-only snapshots; two over the same window both
	// persist and report the same expected figure.
	for i := 0; i < 2; i++ {
		resp, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CierreCajaRequest{
			Desde:           desdeAmplio,
			Hasta:           hastaAmplio,
			EfectivoContado: decimal.NewFromFloat(400),
		})
		require.NoError(t, err)
		assert.Equal(t, "400", resp.EfectivoEsperado.String())
	}
	assert.Len(t, cajaRepo.cierres, 2)
}
