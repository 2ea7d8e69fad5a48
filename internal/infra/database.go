package infra

import (
	"fmt"

	"puntoventa/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// and applies the SQL objects GORM cannot express (the folio sequence).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by the
// integration test suite against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Producto{},
		&model.Cliente{},
		&model.Usuario{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.MovimientoCaja{},
		&model.CierreCaja{},
		&model.MovimientoStock{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	// Folio numbers come from a Postgres sequence: the DB is the single
	// writer, so concurrent sales can never draw the same number.
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS ventas_folio_seq START 1`).Error; err != nil {
		return fmt.Errorf("ventas_folio_seq: %w", err)
	}

	return nil
}
