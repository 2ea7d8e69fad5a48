package service

import (
	"context"
	"fmt"
	"time"

	"puntoventa/internal/dto"
	"puntoventa/internal/metrics"
	"puntoventa/internal/model"
	"puntoventa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CajaService interface {
	RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error)
	EliminarMovimiento(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) error
	Resumen(ctx context.Context, filter dto.CajaFilter) (*dto.ResumenCajaResponse, error)
	CerrarCaja(ctx context.Context, usuarioID uuid.UUID, req dto.CierreCajaRequest) (*dto.CierreCajaResponse, error)
	ObtenerCierre(ctx context.Context, id uuid.UUID) (*dto.CierreCajaResponse, error)
	ListCierres(ctx context.Context, page, limit int) ([]dto.CierreCajaResponse, int64, error)
}

type cajaService struct {
	repo      repository.CajaRepository
	ventaRepo repository.VentaRepository
}

func NewCajaService(repo repository.CajaRepository, ventaRepo repository.VentaRepository) CajaService {
	return &cajaService{repo: repo, ventaRepo: ventaRepo}
}

// RegistrarMovimiento posts a manual cash entry (deposit or withdrawal)
// against the drawer. Amounts are always positive; direction lives in Tipo.
func (s *cajaService) RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error) {
	if req.Tipo != model.MovimientoIngreso && req.Tipo != model.MovimientoEgreso {
		return nil, fmt.Errorf("%w: tipo %q", ErrMontoInvalido, req.Tipo)
	}
	if !req.Monto.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", ErrMontoInvalido)
	}

	mov := &model.MovimientoCaja{
		Tipo:        req.Tipo,
		Monto:       req.Monto,
		Descripcion: req.Descripcion,
		UsuarioID:   usuarioID,
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, err
	}

	metrics.MovimientosCajaTotal.WithLabelValues(mov.Tipo).Inc()
	log.Info().
		Str("tipo", mov.Tipo).
		Str("monto", mov.Monto.StringFixed(2)).
		Str("usuario_id", usuarioID.String()).
		Msg("movimiento de caja registrado")

	return movimientoToResponse(mov), nil
}

// EliminarMovimiento removes a manual entry. Destructive and
// administrator-only (enforced at the route); always logged with the
// acting user before the row disappears.
func (s *cajaService) EliminarMovimiento(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) error {
	mov, err := s.repo.FindMovimientoByID(ctx, id)
	if err != nil {
		return ErrMovimientoNoEncontrado
	}

	log.Warn().
		Str("movimiento_id", id.String()).
		Str("tipo", mov.Tipo).
		Str("monto", mov.Monto.StringFixed(2)).
		Str("eliminado_por", usuarioID.String()).
		Msg("movimiento de caja eliminado")

	return s.repo.DeleteMovimiento(ctx, id)
}

// Resumen builds the live drawer view over the window: manual movements,
// sales per payment method and the running cash balance. Only cash sales
// move the physical drawer.
func (s *cajaService) Resumen(ctx context.Context, filter dto.CajaFilter) (*dto.ResumenCajaResponse, error) {
	desde, hasta, err := parsePeriodo(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, err
	}

	ingresos, egresos, err := s.repo.SumMovimientos(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	porMetodo, err := s.ventaRepo.SumTotalesPorMetodo(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	efectivo := porMetodo[model.MetodoEfectivo]
	tarjeta := porMetodo[model.MetodoTarjeta]
	transferencia := porMetodo[model.MetodoTransferencia]

	movs, err := s.repo.ListMovimientos(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	var listaIngresos, listaEgresos []dto.MovimientoResponse
	for i := range movs {
		r := movimientoToResponse(&movs[i])
		if movs[i].Tipo == model.MovimientoIngreso {
			listaIngresos = append(listaIngresos, *r)
		} else {
			listaEgresos = append(listaEgresos, *r)
		}
	}

	return &dto.ResumenCajaResponse{
		TotalIngresos:       ingresos,
		TotalEgresos:        egresos,
		VentasEfectivo:      efectivo,
		VentasTarjeta:       tarjeta,
		VentasTransferencia: transferencia,
		TotalVentas:         efectivo.Add(tarjeta).Add(transferencia),
		SaldoCaja:           ingresos.Sub(egresos).Add(efectivo),
		Ingresos:            listaIngresos,
		Egresos:             listaEgresos,
	}, nil
}

// CerrarCaja reconciles the drawer over [desde, hasta): expected cash is
// cash sales plus manual deposits minus manual withdrawals; the difference
// against the counted amount classifies the closing. The classification is
// informational — a shortage is recorded, never rejected.
func (s *cajaService) CerrarCaja(ctx context.Context, usuarioID uuid.UUID, req dto.CierreCajaRequest) (*dto.CierreCajaResponse, error) {
	desde, hasta, err := parsePeriodo(req.Desde, req.Hasta)
	if err != nil {
		return nil, err
	}
	if req.EfectivoContado.IsNegative() {
		return nil, fmt.Errorf("%w: efectivo contado negativo", ErrMontoInvalido)
	}

	ingresos, egresos, err := s.repo.SumMovimientos(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	porMetodo, err := s.ventaRepo.SumTotalesPorMetodo(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	efectivo := porMetodo[model.MetodoEfectivo]
	digital := porMetodo[model.MetodoTarjeta].Add(porMetodo[model.MetodoTransferencia])

	esperado := efectivo.Add(ingresos).Sub(egresos)
	diferencia := req.EfectivoContado.Sub(esperado)

	clasificacion := model.CierreCuadrado
	switch {
	case diferencia.IsPositive():
		clasificacion = model.CierreSobrante
	case diferencia.IsNegative():
		clasificacion = model.CierreFaltante
	}

	cierre := &model.CierreCaja{
		PeriodoInicio:    desde,
		PeriodoFin:       hasta,
		UsuarioID:        usuarioID,
		VentasEfectivo:   efectivo,
		VentasDigital:    digital,
		IngresosManuales: ingresos,
		EgresosManuales:  egresos,
		EfectivoEsperado: esperado,
		EfectivoContado:  req.EfectivoContado,
		Diferencia:       diferencia,
		Clasificacion:    clasificacion,
		Notas:            req.Notas,
	}
	if err := s.repo.CreateCierre(ctx, cierre); err != nil {
		return nil, err
	}

	metrics.CierresCajaTotal.WithLabelValues(clasificacion).Inc()
	log.Info().
		Str("clasificacion", clasificacion).
		Str("esperado", esperado.StringFixed(2)).
		Str("contado", req.EfectivoContado.StringFixed(2)).
		Str("diferencia", diferencia.StringFixed(2)).
		Msg("cierre de caja registrado")

	return cierreToResponse(cierre), nil
}

func (s *cajaService) ObtenerCierre(ctx context.Context, id uuid.UUID) (*dto.CierreCajaResponse, error) {
	cierre, err := s.repo.FindCierreByID(ctx, id)
	if err != nil {
		return nil, ErrCierreNoEncontrado
	}
	return cierreToResponse(cierre), nil
}

func (s *cajaService) ListCierres(ctx context.Context, page, limit int) ([]dto.CierreCajaResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	cierres, total, err := s.repo.ListCierres(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CierreCajaResponse, 0, len(cierres))
	for i := range cierres {
		out = append(out, *cierreToResponse(&cierres[i]))
	}
	return out, total, nil
}

// parsePeriodo turns the string bounds into a half-open [desde, hasta)
// window. Accepts YYYY-MM-DD (hasta is inclusive at day granularity, so
// it extends to the next midnight) or RFC 3339. Both bounds empty mean
// today; a one-sided window is rejected as ErrPeriodoInvalido.
func parsePeriodo(desdeStr, hastaStr string) (time.Time, time.Time, error) {
	hoy := time.Now().Truncate(24 * time.Hour)
	if desdeStr == "" && hastaStr == "" {
		return hoy, hoy.Add(24 * time.Hour), nil
	}

	parse := func(s string, endOfDay bool) (time.Time, error) {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			if endOfDay {
				t = t.Add(24 * time.Hour)
			}
			return t, nil
		}
		return time.Parse(time.RFC3339, s)
	}

	desde, err := parse(desdeStr, false)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: desde %q", ErrPeriodoInvalido, desdeStr)
	}
	hasta, err := parse(hastaStr, true)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: hasta %q", ErrPeriodoInvalido, hastaStr)
	}
	if !desde.Before(hasta) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: desde debe anteceder a hasta", ErrPeriodoInvalido)
	}
	return desde, hasta, nil
}

func movimientoToResponse(m *model.MovimientoCaja) *dto.MovimientoResponse {
	usuario := ""
	if m.Usuario != nil {
		usuario = m.Usuario.Nombre
	}
	return &dto.MovimientoResponse{
		ID:          m.ID.String(),
		Tipo:        m.Tipo,
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		Usuario:     usuario,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func cierreToResponse(c *model.CierreCaja) *dto.CierreCajaResponse {
	return &dto.CierreCajaResponse{
		ID:               c.ID.String(),
		PeriodoInicio:    c.PeriodoInicio.Format(time.RFC3339),
		PeriodoFin:       c.PeriodoFin.Format(time.RFC3339),
		VentasEfectivo:   c.VentasEfectivo,
		VentasDigital:    c.VentasDigital,
		IngresosManuales: c.IngresosManuales,
		EgresosManuales:  c.EgresosManuales,
		EfectivoEsperado: c.EfectivoEsperado,
		EfectivoContado:  c.EfectivoContado,
		Diferencia:       c.Diferencia,
		Clasificacion:    c.Clasificacion,
		Notas:            c.Notas,
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
	}
}
