package service

import (
	"context"
	"errors"
	"fmt"

	"puntoventa/internal/dto"
	"puntoventa/internal/model"
	"puntoventa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	// BuscarPorBarcode resolves a barcode to its active product. If the
	// barcode belongs to a soft-deleted product it reactivates it instead
	// of failing, so reused barcodes never brick the scanner flow.
	BuscarPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	List(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo          repository.ProductoRepository
	categoriaRepo repository.CategoriaRepository
}

func NewProductoService(repo repository.ProductoRepository, categoriaRepo repository.CategoriaRepository) ProductoService {
	return &productoService{repo: repo, categoriaRepo: categoriaRepo}
}

// Crear inserts a product, resolving barcode reuse first: a barcode held
// by an active product is a conflict, one held by a soft-deleted product
// restores that row with the new data instead of tripping the unique index.
func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	var categoriaID *uuid.UUID
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrCategoriaNoEncontrada, *req.CategoriaID)
		}
		categoriaID = &cid
	}

	if req.CodigoBarras != nil && *req.CodigoBarras != "" {
		existente, err := s.repo.FindByBarcodeIncluyendoInactivos(ctx, *req.CodigoBarras)
		if err == nil && existente != nil && existente.ID != uuid.Nil {
			if existente.Activo {
				return nil, fmt.Errorf("%w: %s", ErrCodigoBarrasDuplicado, *req.CodigoBarras)
			}
			existente.Descripcion = req.Descripcion
			existente.CategoriaID = categoriaID
			existente.PrecioVenta = req.PrecioVenta
			existente.PrecioCompra = req.PrecioCompra
			existente.Stock = req.Stock
			existente.StockMinimo = req.StockMinimo
			existente.Activo = true
			if err := s.repo.Update(ctx, existente); err != nil {
				return nil, err
			}
			log.Info().
				Str("producto_id", existente.ID.String()).
				Str("codigo_barras", *req.CodigoBarras).
				Msg("producto restaurado por reutilización de código de barras")
			return productoToResponse(existente), nil
		}
	}

	p := &model.Producto{
		CodigoBarras: normalizarBarcode(req.CodigoBarras),
		Descripcion:  req.Descripcion,
		CategoriaID:  categoriaID,
		PrecioVenta:  req.PrecioVenta,
		PrecioCompra: req.PrecioCompra,
		Stock:        req.Stock,
		StockMinimo:  req.StockMinimo,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	return productoToResponse(p), nil
}

func (s *productoService) BuscarPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcodeIncluyendoInactivos(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: código %s", ErrProductoNoEncontrado, barcode)
		}
		return nil, err
	}
	if !p.Activo {
		if err := s.repo.Reactivar(ctx, p.ID); err != nil {
			return nil, err
		}
		p.Activo = true
		log.Info().
			Str("producto_id", p.ID.String()).
			Str("codigo_barras", barcode).
			Msg("producto reactivado por escaneo de código")
	}
	return productoToResponse(p), nil
}

func (s *productoService) List(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}

	if req.Descripcion != nil {
		p.Descripcion = *req.Descripcion
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrCategoriaNoEncontrada, *req.CategoriaID)
		}
		p.CategoriaID = &cid
	}
	// Price edits apply to future sales only: posted lines keep their
	// snapshotted figures.
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.PrecioCompra != nil {
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

// Eliminar deactivates the product. The row stays: posted sales reference
// it and a later scan of its barcode may resurrect it.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	return s.repo.SoftDelete(ctx, id)
}

func normalizarBarcode(b *string) *string {
	if b == nil || *b == "" {
		return nil
	}
	return b
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	var categoriaID *string
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		categoriaID = &id
	}
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Descripcion:  p.Descripcion,
		CategoriaID:  categoriaID,
		PrecioVenta:  p.PrecioVenta,
		PrecioCompra: p.PrecioCompra,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		Activo:       p.Activo,
	}
}
