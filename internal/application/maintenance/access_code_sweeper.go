package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

// AccessCodeSweeper desactiva los códigos de acceso vencidos.
type AccessCodeSweeper struct {
	codes repository.AccessCodeRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewAccessCodeSweeper construye el job.
func NewAccessCodeSweeper(codes repository.AccessCodeRepository, log zerolog.Logger) *AccessCodeSweeper {
	return &AccessCodeSweeper{codes: codes, log: log, now: time.Now}
}

// Name nombre del job en el scheduler.
func (s *AccessCodeSweeper) Name() string { return "access-code-sweep" }

// Run ejecuta un barrido y devuelve cuántos códigos se desactivaron.
func (s *AccessCodeSweeper) Run(ctx context.Context) (int64, error) {
	n, err := s.codes.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("desactivar códigos vencidos: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("codes", n).Msg("códigos de acceso vencidos desactivados")
	}
	return n, nil
}
