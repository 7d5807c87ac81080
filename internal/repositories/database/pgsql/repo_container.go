package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		PendingRepo:      newPgxPendingRewardRepository(dbPool),
		GuardrailRepo:    newPgxGuardrailRepository(dbPool),
		PublishEventRepo: newPgxPublishEventRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		ReceiptRepo:      newPgxReceiptRepository(dbPool),
	}
}
