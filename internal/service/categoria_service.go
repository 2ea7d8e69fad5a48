package service

import (
	"context"

	"puntoventa/internal/dto"
	"puntoventa/internal/model"
	"puntoventa/internal/repository"

	"github.com/google/uuid"
)

type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	List(ctx context.Context) ([]dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return categoriaToResponse(c), nil
}

func (s *categoriaService) List(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		out = append(out, *categoriaToResponse(&categorias[i]))
	}
	return out, nil
}

func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func categoriaToResponse(c *model.Categoria) *dto.CategoriaResponse {
	return &dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}
