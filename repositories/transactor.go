package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/school-tournament/models"
)

// ScopeKey identifies what a write operation regenerates. A zero ModalityID
// and empty Gender mean the whole tournament.
type ScopeKey struct {
	TournamentID int
	ModalityID   int
	Gender       models.Gender
}

func TournamentScope(tournamentID int) ScopeKey {
	return ScopeKey{TournamentID: tournamentID}
}

func (k ScopeKey) TournamentWide() bool {
	return k.ModalityID == 0 && k.Gender == ""
}

func (k ScopeKey) String() string {
	if k.TournamentWide() {
		return fmt.Sprintf("tournament:%d", k.TournamentID)
	}
	return fmt.Sprintf("tournament:%d/modality:%d/gender:%s", k.TournamentID, k.ModalityID, k.Gender)
}

// advisoryObjectID is the second key of the two-int advisory lock. Zero is
// reserved for the tournament itself.
func (k ScopeKey) advisoryObjectID() int32 {
	if k.TournamentWide() {
		return 0
	}
	code := int32(3)
	switch k.Gender {
	case models.GenderMale:
		code = 1
	case models.GenderFemale:
		code = 2
	}
	return int32(k.ModalityID)*4 + code
}

// Transactor runs a unit of work atomically while holding the scope lock.
type Transactor interface {
	WithinScope(ctx context.Context, scope ScopeKey, fn func(ctx context.Context, exec SQLExecutor) error) error
}

type postgresTransactor struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresTransactor(db *sql.DB, logger *slog.Logger) Transactor {
	return &postgresTransactor{db: db, logger: logger}
}

// WithinScope opens a transaction and takes transaction-scoped advisory
// locks: tournament-wide work locks the tournament exclusively, scoped work
// shares the tournament lock and holds its own scope exclusively. Locks are
// released on commit or rollback.
func (t *postgresTransactor) WithinScope(ctx context.Context, scope ScopeKey, fn func(ctx context.Context, exec SQLExecutor) error) (txErr error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				t.logger.Error("rollback failed", slog.String("scope", scope.String()), slog.Any("error", rbErr))
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	tid := int32(scope.TournamentID)
	if scope.TournamentWide() {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, 0)`, tid); err != nil {
			return fmt.Errorf("failed to lock %s: %w", scope, err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock_shared($1, 0)`, tid); err != nil {
			return fmt.Errorf("failed to share-lock tournament %d: %w", scope.TournamentID, err)
		}
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, tid, scope.advisoryObjectID()); err != nil {
			return fmt.Errorf("failed to lock %s: %w", scope, err)
		}
	}

	return fn(ctx, tx)
}
