package repository

import (
	"context"
	"time"

	"puntoventa/internal/dto"
	"puntoventa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// MarcarAnuladaTx sets the void flag inside the reversal transaction.
	MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID, anuladaAt time.Time) error
	// NextFolioNumber draws from a Postgres sequence — the single-writer
	// serialization point that keeps folios unique under concurrency.
	NextFolioNumber(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// SumTotalesPorMetodo aggregates non-voided sale totals per payment
	// method over [desde, hasta).
	SumTotalesPorMetodo(ctx context.Context, desde, hasta time.Time) (map[string]decimal.Decimal, error)
	ListPeriodo(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Cliente").
		Preload("Usuario").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID, anuladaAt time.Time) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).
		Updates(map[string]interface{}{"anulada": true, "anulada_at": anuladaAt}).Error
}

func (r *ventaRepo) NextFolioNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('ventas_folio_seq')").Scan(&num).Error
	return num, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	switch filter.Estado {
	case "anuladas":
		q = q.Where("anulada = true")
	case "all":
		// no filter — audit view
	default:
		q = q.Where("anulada = false")
	}
	if filter.MetodoPago != "" {
		q = q.Where("metodo_pago = ?", filter.MetodoPago)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(created_at) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(created_at) <= ?", filter.Hasta)
	}
	if filter.Desde == "" && filter.Hasta == "" {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) SumTotalesPorMetodo(ctx context.Context, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	type row struct {
		MetodoPago string
		Total      decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COALESCE(SUM(total), 0) AS total").
		Where("anulada = false AND created_at >= ? AND created_at < ?", desde, hasta).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.MetodoPago] = row.Total
	}
	return sums, nil
}

func (r *ventaRepo) ListPeriodo(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("anulada = false AND created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}
