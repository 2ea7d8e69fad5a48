package service

import (
	"context"
	"fmt"

	"puntoventa/internal/dto"
	"puntoventa/internal/model"
	"puntoventa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type InventarioService interface {
	// AjustarStock applies a signed manual delta and records the audit
	// movement. Negative deltas may not take stock below zero.
	AjustarStock(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	Movimientos(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error)
}

type inventarioService struct {
	productoRepo repository.ProductoRepository
	movStockRepo repository.MovimientoStockRepository
}

func NewInventarioService(productoRepo repository.ProductoRepository, movStockRepo repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movStockRepo: movStockRepo}
}

func (s *inventarioService) AjustarStock(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta cero", ErrMontoInvalido)
	}

	p, err := s.productoRepo.FindByID(ctx, id)
	if err != nil || !p.Activo {
		return nil, ErrProductoNoEncontrado
	}
	// Captured before the repo applies the delta: implementations may
	// hand back a live object, and the audit row must record the stock
	// as it was.
	anterior := p.Stock
	nuevo := anterior + req.Delta
	if nuevo < 0 {
		return nil, fmt.Errorf("%w: stock %d, ajuste %d", ErrStockInsuficiente, anterior, req.Delta)
	}

	if err := s.productoRepo.AjustarStock(ctx, id, req.Delta); err != nil {
		return nil, err
	}

	mov := &model.MovimientoStock{
		ProductoID:    id,
		Tipo:          "ajuste_manual",
		Cantidad:      req.Delta,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		Motivo:        req.Motivo,
	}
	if err := s.movStockRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	log.Info().
		Str("producto_id", id.String()).
		Int("delta", req.Delta).
		Int("stock_nuevo", nuevo).
		Str("usuario_id", usuarioID.String()).
		Msg("ajuste manual de stock")

	p.Stock = nuevo
	return productoToResponse(p), nil
}

// Alertas lists active products at or below their minimum stock.
func (s *inventarioService) Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productoRepo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Descripcion: p.Descripcion,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
		})
	}
	return alertas, nil
}

func (s *inventarioService) Movimientos(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return s.movStockRepo.List(ctx, filter)
}
