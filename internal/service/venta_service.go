package service

import (
	"context"
	"fmt"
	"time"

	"puntoventa/internal/config"
	"puntoventa/internal/dto"
	"puntoventa/internal/metrics"
	"puntoventa/internal/model"
	"puntoventa/internal/repository"
	"puntoventa/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.VentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ObtenerTicket(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	MargenPeriodo(ctx context.Context, desde, hasta time.Time) ([]dto.MargenVentaResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	movStockRepo repository.MovimientoStockRepository
	negocio      config.Negocio
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	movStockRepo repository.MovimientoStockRepository,
	negocio config.Negocio,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		movStockRepo: movStockRepo,
		negocio:      negocio,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Posts a sale as one ACID unit:
//   1. Validate cart, payment method and tendered amount (pre-flight, zero
//      side effects on failure)
//   2. Resolve product snapshots, check stock, compute totals and change
//   3. Resolve the client reference (existing id verified pre-tx, inline
//      data created inside the tx)
//   4. BEGIN TX: draw folio, insert venta + detalles with snapshotted
//      price/cost, conditionally decrement stock per line, record stock
//      movements
//   5. COMMIT — any failure rolls the whole sale back
//   6. (async) dispatch the ticket PDF/email job

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Items) == 0 {
		metrics.VentasRechazadasTotal.WithLabelValues("carrito_vacio").Inc()
		return nil, ErrCarritoVacio
	}
	if !model.MetodoPagoValido(req.MetodoPago) {
		metrics.VentasRechazadasTotal.WithLabelValues("metodo_invalido").Inc()
		return nil, ErrMetodoPagoInvalido
	}
	if req.MontoRecibido.IsNegative() {
		return nil, ErrMontoInvalido
	}

	// Resolve products and calculate totals (pre-flight, outside TX).
	// Prices and costs are snapshotted here so later catalog edits never
	// touch this sale's figures.
	type lineaResuelta struct {
		productoID  uuid.UUID
		descripcion string
		precio      decimal.Decimal
		costo       decimal.Decimal
		cantidad    int
		totalLinea  decimal.Decimal
	}

	var resueltas []lineaResuelta
	subtotal := decimal.Zero

	// Requested units per product across all cart lines, so a product
	// split over several lines is stock-checked against its combined
	// total here instead of surfacing later as a decrement conflict.
	pedidoPorProducto := make(map[uuid.UUID]int)

	for _, item := range req.Items {
		if item.Cantidad <= 0 {
			return nil, fmt.Errorf("%w: cantidad debe ser mayor a cero", ErrMontoInvalido)
		}
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id %q", ErrProductoNoEncontrado, item.ProductoID)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil || !p.Activo {
			metrics.VentasRechazadasTotal.WithLabelValues("producto_no_encontrado").Inc()
			return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, item.ProductoID)
		}
		pedidoPorProducto[pid] += item.Cantidad
		if p.Stock < pedidoPorProducto[pid] {
			metrics.VentasRechazadasTotal.WithLabelValues("stock_insuficiente").Inc()
			return nil, fmt.Errorf("%w: %s (disponible %d, pedido %d)",
				ErrStockInsuficiente, p.Descripcion, p.Stock, pedidoPorProducto[pid])
		}
		totalLinea := p.PrecioVenta.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		subtotal = subtotal.Add(totalLinea)
		resueltas = append(resueltas, lineaResuelta{
			productoID:  pid,
			descripcion: p.Descripcion,
			precio:      p.PrecioVenta,
			costo:       p.PrecioCompra,
			cantidad:    item.Cantidad,
			totalLinea:  totalLinea,
		})
	}

	// Single optional tax line, zero for now.
	impuesto := decimal.Zero
	total := subtotal.Add(impuesto)

	// Payment: cash requires tendered >= total and yields change; card and
	// transfer are exact-amount, no cash change.
	recibido := req.MontoRecibido
	cambio := decimal.Zero
	if req.MetodoPago == model.MetodoEfectivo {
		if recibido.LessThan(total) {
			metrics.VentasRechazadasTotal.WithLabelValues("pago_insuficiente").Inc()
			return nil, fmt.Errorf("%w: total %s, recibido %s",
				ErrPagoInsuficiente, total.StringFixed(2), recibido.StringFixed(2))
		}
		cambio = recibido.Sub(total)
	} else {
		recibido = total
	}

	// Resolve client reference: an existing id must exist before the tx
	// opens; inline data is created inside the tx.
	var clienteID *uuid.UUID
	var clienteInline *model.Cliente
	if req.Cliente != nil {
		switch {
		case req.Cliente.ClienteID != nil:
			cid, err := uuid.Parse(*req.Cliente.ClienteID)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrClienteNoEncontrado, *req.Cliente.ClienteID)
			}
			if _, err := s.clienteRepo.FindByID(ctx, cid); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrClienteNoEncontrado, cid)
			}
			clienteID = &cid
		case req.Cliente.Nombre != nil:
			clienteInline = &model.Cliente{
				Nombre:   *req.Cliente.Nombre,
				Telefono: req.Cliente.Telefono,
				Activo:   true,
			}
		}
	}

	// ACID transaction
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if clienteInline != nil {
			if err := s.clienteRepo.CreateTx(tx, clienteInline); err != nil {
				return err
			}
			clienteID = &clienteInline.ID
		}

		folioNum, err := s.repo.NextFolioNumber(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			Folio:         fmt.Sprintf("%s-%04d", time.Now().Format("20060102"), folioNum),
			ClienteID:     clienteID,
			UsuarioID:     usuarioID,
			MetodoPago:    req.MetodoPago,
			Subtotal:      subtotal,
			Impuesto:      impuesto,
			Total:         total,
			MontoRecibido: recibido,
			Cambio:        cambio,
		}
		for _, l := range resueltas {
			venta.Detalles = append(venta.Detalles, model.DetalleVenta{
				ProductoID:     l.productoID,
				Descripcion:    l.descripcion,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				CostoUnitario:  l.costo,
				TotalLinea:     l.totalLinea,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, l := range resueltas {
			// Stock before the decrement, read inside the tx for the
			// movement record.
			stockAntes := 0
			if prodAntes, err := s.productoRepo.FindByIDTx(tx, l.productoID); err == nil && prodAntes != nil {
				stockAntes = prodAntes.Stock
			}

			// Conditional decrement — the serialization point against
			// concurrent sales of the same product. Zero rows means the
			// stock moved under us: abort, nothing partial survives.
			ok, err := s.productoRepo.DescontarStockTx(tx, l.productoID, l.cantidad)
			if err != nil {
				return fmt.Errorf("descontando stock de %s: %w", l.descripcion, err)
			}
			if !ok {
				metrics.VentasRechazadasTotal.WithLabelValues("conflicto_stock").Inc()
				return fmt.Errorf("%w: %s", ErrConflictoStock, l.descripcion)
			}

			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    l.productoID,
				Tipo:          "venta",
				Cantidad:      -l.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes - l.cantidad,
				Motivo:        fmt.Sprintf("Venta %s", venta.Folio),
				ReferenciaID:  &ventaRef,
			}
			if err := s.movStockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.VentasRegistradasTotal.Inc()
	log.Info().
		Str("folio", venta.Folio).
		Str("metodo_pago", venta.MetodoPago).
		Str("total", venta.Total.StringFixed(2)).
		Msg("venta registrada")

	// Async ticket job (best-effort — fire & forget)
	if s.dispatcher != nil {
		payload := worker.TicketJobPayload{VentaID: venta.ID.String()}
		if req.ClienteEmail != nil && *req.ClienteEmail != "" {
			payload.ClienteEmail = *req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueTicket(ctx, payload)
	}

	return ventaToResponse(&venta), nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Voids a posted sale: restores stock per line and marks the sale voided,
// all inside one transaction. The sale row is never deleted — voided sales
// stay queryable for audit but drop out of every aggregate. A second void
// of the same sale is rejected, not silently accepted.

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	if venta.Anulada {
		return nil, ErrVentaYaAnulada
	}

	ahora := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, detalle := range venta.Detalles {
			prodAntes, err := s.productoRepo.FindByIDTx(tx, detalle.ProductoID)
			if err != nil {
				// Product hard-deleted since the sale: skip the restock,
				// never fail the whole reversal over it.
				log.Warn().
					Str("venta", venta.Folio).
					Str("producto_id", detalle.ProductoID.String()).
					Msg("producto inexistente al anular — stock no restaurado")
				continue
			}

			if err := s.productoRepo.RestaurarStockTx(tx, detalle.ProductoID, detalle.Cantidad); err != nil {
				return err
			}

			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    detalle.ProductoID,
				Tipo:          "restauracion_anulacion",
				Cantidad:      detalle.Cantidad,
				StockAnterior: prodAntes.Stock,
				StockNuevo:    prodAntes.Stock + detalle.Cantidad,
				Motivo:        fmt.Sprintf("Anulación venta %s", venta.Folio),
				ReferenciaID:  &ventaRef,
			}
			if err := s.movStockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return s.repo.MarcarAnuladaTx(tx, id, ahora)
	})
	if txErr != nil {
		return nil, txErr
	}

	venta.Anulada = true
	venta.AnuladaAt = &ahora

	metrics.VentasAnuladasTotal.Inc()
	log.Info().
		Str("folio", venta.Folio).
		Str("usuario_id", usuarioID.String()).
		Msg("venta anulada")

	return ventaToResponse(venta), nil
}

// ── Projections ───────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	return ventaToResponse(venta), nil
}

// ObtenerTicket builds the receipt-ready view of a sale. The business
// settings come injected via config, never from ambient globals.
func (s *ventaService) ObtenerTicket(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}

	cliente := "Público general"
	if venta.Cliente != nil {
		cliente = venta.Cliente.Nombre
	}
	cajero := ""
	if venta.Usuario != nil {
		cajero = venta.Usuario.Nombre
	}

	items := make([]dto.TicketItem, 0, len(venta.Detalles))
	for _, d := range venta.Detalles {
		items = append(items, dto.TicketItem{
			Descripcion: d.Descripcion,
			Cantidad:    d.Cantidad,
			Precio:      d.PrecioUnitario,
			Total:       d.TotalLinea,
		})
	}

	return &dto.TicketResponse{
		Negocio:    s.negocio.Nombre,
		Direccion:  s.negocio.Direccion,
		Telefono:   s.negocio.Telefono,
		Folio:      venta.Folio,
		Fecha:      venta.CreatedAt.Format("02/01/2006 15:04"),
		Cliente:    cliente,
		Cajero:     cajero,
		Items:      items,
		Subtotal:   venta.Subtotal,
		Total:      venta.Total,
		Pago:       venta.MontoRecibido,
		Cambio:     venta.Cambio,
		MetodoPago: venta.MetodoPago,
		Leyenda:    s.negocio.Leyenda,
	}, nil
}

// ListVentas returns a paginated list of sales filtered by date range,
// payment method and voided state. Default: today's active sales.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// MargenPeriodo reports the gross margin per non-voided sale over
// [desde, hasta), computed from the snapshotted line figures.
func (s *ventaService) MargenPeriodo(ctx context.Context, desde, hasta time.Time) ([]dto.MargenVentaResponse, error) {
	ventas, err := s.repo.ListPeriodo(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MargenVentaResponse, 0, len(ventas))
	for i := range ventas {
		v := &ventas[i]
		costo := decimal.Zero
		margen := decimal.Zero
		for _, d := range v.Detalles {
			costo = costo.Add(d.CostoUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad))))
			margen = margen.Add(d.Margen())
		}
		out = append(out, dto.MargenVentaResponse{
			VentaID:     v.ID.String(),
			Folio:       v.Folio,
			Total:       v.Total,
			Costo:       costo,
			MargenBruto: margen,
		})
	}
	return out, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		detalles = append(detalles, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			TotalLinea:     d.TotalLinea,
		})
	}
	var clienteID *string
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		clienteID = &id
	}
	return &dto.VentaResponse{
		ID:            v.ID.String(),
		Folio:         v.Folio,
		ClienteID:     clienteID,
		Detalles:      detalles,
		Subtotal:      v.Subtotal,
		Impuesto:      v.Impuesto,
		Total:         v.Total,
		MetodoPago:    v.MetodoPago,
		MontoRecibido: v.MontoRecibido,
		Cambio:        v.Cambio,
		Anulada:       v.Anulada,
		CreatedAt:     v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
