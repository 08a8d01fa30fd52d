package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/config"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
)

// ErrDuplicateReference a shift entry already uses the reference code.
var ErrDuplicateReference = errors.New("reference code already in use")

// referenceGenerator issues prefix + zero-padded sequence codes ("VA-003").
type referenceGenerator struct {
	prefix string
	width  int
	logger *zap.Logger
}

func newReferenceGenerator(cfg *config.LedgerConfig, logger *zap.Logger) *referenceGenerator {
	return &referenceGenerator{prefix: cfg.ReferencePrefix, width: cfg.ReferenceWidth, logger: logger}
}

func (g *referenceGenerator) format(n int64) string {
	return fmt.Sprintf("%s%0*d", g.prefix, g.width, n)
}

// next claims the following code. The sequence row stays locked until the caller's
// transaction ends, so concurrent creates are serialized. The entry count keeps the
// sequence ahead of codes written before the sequence row existed, and codes a caller
// supplied verbatim are skipped.
func (g *referenceGenerator) next(ctx context.Context, repo *repository.Repository) (string, error) {
	seq, err := repo.ReferenceSequence.Lock(ctx, g.prefix)
	if err != nil {
		g.logger.Error("lock reference sequence failed", zap.String("prefix", g.prefix), zap.Error(err))
		return "", err
	}

	count, err := repo.ShiftEntry.CountByRefPrefix(ctx, g.prefix)
	if err != nil {
		g.logger.Error("count reference codes failed", zap.Error(err))
		return "", err
	}

	n := seq.LastValue
	if count > n {
		n = count
	}
	n, err = g.firstFree(ctx, repo, n+1)
	if err != nil {
		return "", err
	}

	if err := repo.ReferenceSequence.SetLastValue(ctx, g.prefix, n); err != nil {
		g.logger.Error("advance reference sequence failed", zap.Error(err))
		return "", err
	}
	return g.format(n), nil
}

// preview is what next would return now, without claiming it.
func (g *referenceGenerator) preview(ctx context.Context, repo *repository.Repository) (string, error) {
	var last int64
	seq, err := repo.ReferenceSequence.Get(ctx, g.prefix)
	switch {
	case err == nil:
		last = seq.LastValue
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		g.logger.Error("read reference sequence failed", zap.Error(err))
		return "", err
	}

	count, err := repo.ShiftEntry.CountByRefPrefix(ctx, g.prefix)
	if err != nil {
		g.logger.Error("count reference codes failed", zap.Error(err))
		return "", err
	}
	if count > last {
		last = count
	}
	n, err := g.firstFree(ctx, repo, last+1)
	if err != nil {
		return "", err
	}
	return g.format(n), nil
}

// firstFree returns the first n >= from whose code no entry holds yet.
func (g *referenceGenerator) firstFree(ctx context.Context, repo *repository.Repository, from int64) (int64, error) {
	n := from
	for {
		taken, err := repo.ShiftEntry.ExistsByRefNo(ctx, g.format(n))
		if err != nil {
			g.logger.Error("check reference code failed", zap.Int64("n", n), zap.Error(err))
			return 0, err
		}
		if !taken {
			return n, nil
		}
		n++
	}
}
