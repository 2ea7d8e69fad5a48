package tests

import (
	"context"
	"strings"
	"testing"
	"time"

	"puntoventa/internal/config"
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

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductoRepo is an in-memory ProductoRepository for testing.
// forceConflicto simulates a concurrent decrement racing past the
// pre-flight check: DescontarStockTx reports zero rows updated.
type stubProductoRepo struct {
	productos      map[uuid.UUID]*model.Producto
	forceConflicto bool
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByBarcodeIncluyendoInactivos(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras != nil && *p.CodigoBarras == barcode {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListBajoStock(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.Stock <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) (bool, error) {
	if r.forceConflicto {
		return false, nil
	}
	p, ok := r.productos[id]
	if !ok || p.Stock < cantidad {
		return false, nil
	}
	p.Stock -= cantidad
	return true, nil
}

func (r *stubProductoRepo) RestaurarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += cantidad
	return nil
}

func (r *stubProductoRepo) AjustarStock(_ context.Context, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubVentaRepo is an in-memory VentaRepository for testing.
type stubVentaRepo struct {
	ventas   map[uuid.UUID]*model.Venta
	folioSeq int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) MarcarAnuladaTx(_ *gorm.DB, id uuid.UUID, anuladaAt time.Time) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Anulada = true
	v.AnuladaAt = &anuladaAt
	return nil
}

func (r *stubVentaRepo) NextFolioNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.folioSeq++
	return r.folioSeq, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		switch filter.Estado {
		case "anuladas":
			if !v.Anulada {
				continue
			}
		case "all":
		default:
			if v.Anulada {
				continue
			}
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) SumTotalesPorMetodo(_ context.Context, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, v := range r.ventas {
		if v.Anulada || v.CreatedAt.Before(desde) || !v.CreatedAt.Before(hasta) {
			continue
		}
		sums[v.MetodoPago] = sums[v.MetodoPago].Add(v.Total)
	}
	return sums, nil
}

func (r *stubVentaRepo) ListPeriodo(_ context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.Anulada || v.CreatedAt.Before(desde) || !v.CreatedAt.Before(hasta) {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// stubClienteRepo is an in-memory ClienteRepository for testing.
type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) CreateTx(_ *gorm.DB, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok || !c.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubMovStockRepo captures audit rows for assertion.
type stubMovStockRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovStockRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovStockRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovStockRepo) List(_ context.Context, _ repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovStockRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, descripcion, barcode string, precio float64, stock, minimo int) *model.Producto {
	b := barcode
	p := &model.Producto{
		ID:           uuid.New(),
		CodigoBarras: &b,
		Descripcion:  descripcion,
		PrecioVenta:  decimal.NewFromFloat(precio),
		PrecioCompra: decimal.NewFromFloat(precio / 2),
		Stock:        stock,
		StockMinimo:  minimo,
		Activo:       true,
	}
	repo.productos[p.ID] = p
	return p
}

func buildVentaSvc() (service.VentaService, *stubVentaRepo, *stubProductoRepo, *stubClienteRepo, *stubMovStockRepo) {
	productoRepo := newStubProductoRepo()
	ventaRepo := newStubVentaRepo()
	clienteRepo := newStubClienteRepo()
	movStockRepo := &stubMovStockRepo{}

	negocio := config.Negocio{Nombre: "Tienda Demo", Leyenda: "¡Gracias por su compra!"}
	svc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, movStockRepo, negocio, nil)
	return svc, ventaRepo, productoRepo, clienteRepo, movStockRepo
}

func itemsDe(p *model.Producto, cantidad int) []dto.ItemCarritoRequest {
	return []dto.ItemCarritoRequest{{ProductoID: p.ID.String(), Cantidad: cantidad}}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_EfectivoConCambio(t *testing.T) {
	svc, ventaRepo, productoRepo, _, movStockRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Gaseosa 1.5L", "5050505050505", 200, 30, 5)

	// total = 200 × 2 = 400; recibido 500 → cambio 100
	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 2),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(500),
	})
	require.NoError(t, err)
	assert.Equal(t, "400", resp.Total.String())
	assert.Equal(t, "100", resp.Cambio.String())
	assert.False(t, resp.Anulada)

	// Stock decremented and audit row written
	assert.Equal(t, 28, productoRepo.productos[p.ID].Stock)
	require.Len(t, movStockRepo.movimientos, 1)
	assert.Equal(t, "venta", movStockRepo.movimientos[0].Tipo)
	assert.Equal(t, -2, movStockRepo.movimientos[0].Cantidad)
	assert.Equal(t, 30, movStockRepo.movimientos[0].StockAnterior)
	assert.Equal(t, 28, movStockRepo.movimientos[0].StockNuevo)

	// Folio format {YYYYMMDD}-{seq}
	stored, err := ventaRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.Folio, "-0001"), "folio %q", stored.Folio)
	assert.Equal(t, time.Now().Format("20060102"), strings.SplitN(stored.Folio, "-", 2)[0])
}

func TestRegistrarVenta_SnapshotDePrecios(t *testing.T) {
	svc, ventaRepo, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Cerveza 355ml", "1010101010101", 150, 50, 5)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 1),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(150),
	})
	require.NoError(t, err)

	// Later catalog edits must not touch the posted sale
	p.PrecioVenta = decimal.NewFromFloat(999)
	p.Descripcion = "Cerveza 355ml EDITADA"

	stored, _ := ventaRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.Len(t, stored.Detalles, 1)
	assert.Equal(t, "150", stored.Detalles[0].PrecioUnitario.String())
	assert.Equal(t, "Cerveza 355ml", stored.Detalles[0].Descripcion)
	assert.Equal(t, "150", stored.Total.String())
}

func TestRegistrarVenta_PagoInsuficiente(t *testing.T) {
	svc, ventaRepo, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Agua 500ml", "2020202020202", 250, 50, 5)

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 10), // total 2500
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, service.ErrPagoInsuficiente)

	// Zero side effects
	assert.Equal(t, 50, productoRepo.productos[p.ID].Stock)
	assert.Empty(t, ventaRepo.ventas)
}

func TestRegistrarVenta_TarjetaSinCambio(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Fernet 750ml", "4040404040404", 1200, 20, 3)

	// Non-cash: tendered amount is forced to the exact total, no change
	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 2),
		MetodoPago:    model.MetodoTarjeta,
		MontoRecibido: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "2400", resp.Total.String())
	assert.Equal(t, "2400", resp.MontoRecibido.String())
	assert.True(t, resp.Cambio.IsZero())
}

func TestRegistrarVenta_CarritoVacio(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc()
	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, service.ErrCarritoVacio)
}

func TestRegistrarVenta_MetodoPagoInvalido(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Vino 750ml", "3030303030303", 500, 10, 1)

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 1),
		MetodoPago:    "cripto",
		MontoRecibido: decimal.NewFromFloat(500),
	})
	assert.ErrorIs(t, err, service.ErrMetodoPagoInvalido)
}

func TestRegistrarVenta_ProductoInexistente(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc()
	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         []dto.ItemCarritoRequest{{ProductoID: uuid.NewString(), Cantidad: 1}},
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	svc, ventaRepo, productoRepo, _, movStockRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Whisky 750ml", "6060606060606", 1800, 2, 1)

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 5), // only 2 available
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(9000),
	})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)

	// The rejection leaves nothing behind
	assert.Equal(t, 2, productoRepo.productos[p.ID].Stock)
	assert.Empty(t, ventaRepo.ventas)
	assert.Empty(t, movStockRepo.movimientos)
}

func TestRegistrarVenta_StockInsuficienteEnLineasRepetidas(t *testing.T) {
	svc, ventaRepo, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Energizante 500ml", "8080808080808", 300, 3, 1)

	// The same product split over two lines is checked against the
	// combined quantity: 2+2 > 3 is an over-ask, not a race.
	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemCarritoRequest{
			{ProductoID: p.ID.String(), Cantidad: 2},
			{ProductoID: p.ID.String(), Cantidad: 2},
		},
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(2000),
	})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
	assert.NotErrorIs(t, err, service.ErrConflictoStock)
	assert.Equal(t, 3, productoRepo.productos[p.ID].Stock)
	assert.Empty(t, ventaRepo.ventas)
}

func TestRegistrarVenta_ConflictoStockConcurrente(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Jugo 1L", "9090909090909", 150, 20, 2)

	// Another sale races past the pre-flight check: the conditional
	// decrement updates zero rows and the whole sale must roll back.
	productoRepo.forceConflicto = true

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 1),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(150),
	})
	assert.ErrorIs(t, err, service.ErrConflictoStock)
}

func TestRegistrarVenta_ClienteInline(t *testing.T) {
	svc, ventaRepo, productoRepo, clienteRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Pan lactal", "1111111111111", 80, 10, 2)

	nombre := "María López"
	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 1),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(80),
		Cliente:       &dto.ClienteRefRequest{Nombre: &nombre},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ClienteID)

	// The inline client was created and linked
	c, err := clienteRepo.FindByID(context.Background(), uuid.MustParse(*resp.ClienteID))
	require.NoError(t, err)
	assert.Equal(t, "María López", c.Nombre)

	stored, _ := ventaRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NotNil(t, stored.ClienteID)
	assert.Equal(t, c.ID, *stored.ClienteID)
}

func TestRegistrarVenta_ClienteInexistente(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Leche 1L", "2222222222222", 100, 10, 2)

	id := uuid.NewString()
	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 1),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(100),
		Cliente:       &dto.ClienteRefRequest{ClienteID: &id},
	})
	assert.ErrorIs(t, err, service.ErrClienteNoEncontrado)
}

func TestAnularVenta_RestauraStock(t *testing.T) {
	svc, ventaRepo, productoRepo, _, movStockRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Yerba 1kg", "3333333333333", 900, 10, 1)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 3),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(2700),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, productoRepo.productos[p.ID].Stock)

	anulada, err := svc.AnularVenta(context.Background(), uuid.MustParse(resp.ID), uuid.New())
	require.NoError(t, err)
	assert.True(t, anulada.Anulada)

	// Stock restored; the sale row stays, marked voided
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
	stored, _ := ventaRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	assert.True(t, stored.Anulada)
	require.NotNil(t, stored.AnuladaAt)

	// Audit trail: venta + restauracion entries
	var tieneRestauracion bool
	for _, m := range movStockRepo.movimientos {
		if m.Tipo == "restauracion_anulacion" {
			tieneRestauracion = true
			assert.Equal(t, 3, m.Cantidad)
		}
	}
	assert.True(t, tieneRestauracion)
}

func TestAnularVenta_DobleAnulacionRechazada(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Azúcar 1kg", "4444444444444", 120, 10, 1)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 2),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(240),
	})
	require.NoError(t, err)

	_, err = svc.AnularVenta(context.Background(), uuid.MustParse(resp.ID), uuid.New())
	require.NoError(t, err)

	// A second void must fail and must not restock again
	_, err = svc.AnularVenta(context.Background(), uuid.MustParse(resp.ID), uuid.New())
	assert.ErrorIs(t, err, service.ErrVentaYaAnulada)
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
}

func TestAnularVenta_ProductoEliminadoNoBloquea(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Descontinuado", "5555555555555", 300, 5, 1)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 1),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(300),
	})
	require.NoError(t, err)

	// Hard-delete the product — the reversal should still complete
	delete(productoRepo.productos, p.ID)

	anulada, err := svc.AnularVenta(context.Background(), uuid.MustParse(resp.ID), uuid.New())
	require.NoError(t, err)
	assert.True(t, anulada.Anulada)
}

func TestAnularVenta_NoEncontrada(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc()
	_, err := svc.AnularVenta(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, service.ErrVentaNoEncontrada)
}

func TestObtenerTicket_Proyeccion(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Café 500g", "6666666666666", 450, 10, 1)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 2),
		MetodoPago:    model.MetodoEfectivo,
		MontoRecibido: decimal.NewFromFloat(1000),
	})
	require.NoError(t, err)

	ticket, err := svc.ObtenerTicket(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "Tienda Demo", ticket.Negocio)
	assert.Equal(t, "Público general", ticket.Cliente)
	assert.Equal(t, "¡Gracias por su compra!", ticket.Leyenda)
	require.Len(t, ticket.Items, 1)
	assert.Equal(t, "Café 500g", ticket.Items[0].Descripcion)
	assert.Equal(t, "900", ticket.Total.String())
	assert.Equal(t, "100", ticket.Cambio.String())
}

func TestMargenPeriodo(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	// precio 100, costo 50 → margen 50 por unidad
	p := seedProducto(productoRepo, "Snack", "7777777777777", 100, 20, 1)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         itemsDe(p, 4),
		MetodoPago:    model.MetodoTarjeta,
		MontoRecibido: decimal.Zero,
	})
	require.NoError(t, err)

	desde, _ := time.Parse("2006-01-02", "2000-01-01")
	hasta, _ := time.Parse("2006-01-02", "2099-12-31")
	margenes, err := svc.MargenPeriodo(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, margenes, 1)
	assert.Equal(t, resp.Folio, margenes[0].Folio)
	assert.Equal(t, "400", margenes[0].Total.String())
	assert.Equal(t, "200", margenes[0].Costo.String())
	assert.Equal(t, "200", margenes[0].MargenBruto.String())
}
