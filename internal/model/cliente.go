package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a weak reference target for sales: the sale engine only
// looks a client up by id or creates one inline, it never owns the
// client lifecycle.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Telefono  *string
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
