package repository

import (
	"context"
	"time"

	"puntoventa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaRepository interface {
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	FindMovimientoByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error)
	ListMovimientos(ctx context.Context, desde, hasta time.Time) ([]model.MovimientoCaja, error)
	// DeleteMovimiento is the administrative destructive path — callers
	// must log it as such before invoking.
	DeleteMovimiento(ctx context.Context, id uuid.UUID) error
	// SumMovimientos returns (ingresos, egresos) over [desde, hasta).
	SumMovimientos(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, decimal.Decimal, error)

	CreateCierre(ctx context.Context, c *model.CierreCaja) error
	FindCierreByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error)
	ListCierres(ctx context.Context, page, limit int) ([]model.CierreCaja, int64, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) FindMovimientoByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	var m model.MovimientoCaja
	err := r.db.WithContext(ctx).Preload("Usuario").First(&m, id).Error
	return &m, err
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, desde, hasta time.Time) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at DESC").
		Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) DeleteMovimiento(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MovimientoCaja{}, id).Error
}

func (r *cajaRepo) SumMovimientos(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, decimal.Decimal, error) {
	type row struct {
		Tipo  string
		Total decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Group("tipo").
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch row.Tipo {
		case model.MovimientoIngreso:
			ingresos = row.Total
		case model.MovimientoEgreso:
			egresos = row.Total
		}
	}
	return ingresos, egresos, nil
}

func (r *cajaRepo) CreateCierre(ctx context.Context, c *model.CierreCaja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindCierreByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).Preload("Usuario").First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) ListCierres(ctx context.Context, page, limit int) ([]model.CierreCaja, int64, error) {
	var cierres []model.CierreCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CierreCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("periodo_inicio DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&cierres).Error
	return cierres, total, err
}
