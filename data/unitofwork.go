package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/data/repository/sqlite"
	"github.com/jmoiron/sqlx"
)

// txBeginner is the seam between the coordinator and the physical store.
// *sqlx.DB satisfies it; tests wrap it to count acquisitions.
type txBeginner interface {
	Beginx() (*sqlx.Tx, error)
}

// UnitOfWork binds one transaction to a coherent set of repositories so
// their writes commit or roll back together.
//
// States: Idle -> Active (Enter) -> Committed/RolledBack (Exit) -> Idle.
// Nested Enter calls share the outer transaction; only the outermost Exit
// settles it. A UnitOfWork is not safe for concurrent use: open one per
// logical transaction.
//
// Repositories pulled from an Idle coordinator run autonomously on the raw
// connection, one implicit transaction per statement, supporting ad-hoc
// non-transactional reads.
type UnitOfWork struct {
	db       *sqlx.DB
	beginner txBeginner
	cfg      *config.Config

	depth   int
	tx      *sqlx.Tx
	settled bool

	stocks       *sqlite.StockRepo
	portfolios   *sqlite.PortfolioRepo
	transactions *sqlite.TransactionRepo
	targets      *sqlite.TargetRepo
	balances     *sqlite.BalanceRepo
	journal      *sqlite.JournalRepo
}

func NewUnitOfWork(cfg *config.Config, db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db, beginner: db, cfg: cfg}
}

// UnitOfWorkFactory mints one coordinator per logical transaction.
type UnitOfWorkFactory struct {
	cfg *config.Config
	db  *sqlx.DB
}

func NewUnitOfWorkFactory(cfg *config.Config, db *sqlx.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{cfg: cfg, db: db}
}

func (f *UnitOfWorkFactory) New() *UnitOfWork {
	return NewUnitOfWork(f.cfg, f.db)
}

// Enter opens a scope. The first (outermost) entry begins the transaction;
// re-entering an Active coordinator only bumps the nesting counter and
// shares the outer transaction.
func (u *UnitOfWork) Enter() error {
	if u.depth == 0 {
		tx, err := u.beginner.Beginx()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		u.tx = tx
		u.settled = false
	}
	u.depth++
	return nil
}

// Commit settles the transaction exactly once; calling it again on a
// settled or Idle coordinator is a no-op.
func (u *UnitOfWork) Commit() error {
	if u.tx == nil || u.settled {
		return nil
	}
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	u.settled = true
	return nil
}

// Rollback settles the transaction exactly once, with the same no-op rule
// as Commit.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil || u.settled {
		return nil
	}
	if err := u.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	u.settled = true
	return nil
}

// Exit closes one nesting level. On the outermost exit the transaction is
// committed when opErr is nil and rolled back otherwise, then the handle
// and cached repositories are released so the next scope starts clean.
// opErr is never swallowed; a settle failure surfaces only when opErr is
// nil.
func (u *UnitOfWork) Exit(opErr error) error {
	if u.depth == 0 {
		return opErr
	}
	u.depth--
	if u.depth > 0 {
		return opErr
	}

	var settleErr error
	if opErr != nil {
		if rbErr := u.Rollback(); rbErr != nil {
			slog.Error("failed to rollback transaction", slog.String("err", rbErr.Error()))
		}
	} else {
		settleErr = u.Commit()
	}

	u.release()

	if opErr != nil {
		return opErr
	}
	return settleErr
}

// Do runs fn inside one scope: commit on nil error, rollback on error or
// panic (the panic is re-raised).
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) (err error) {
	if err = u.Enter(); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = u.Exit(fmt.Errorf("panic in unit of work scope: %v", p))
			panic(p)
		}
	}()

	err = fn(ctx, u)
	return u.Exit(err)
}

func (u *UnitOfWork) release() {
	u.tx = nil
	u.settled = false
	u.stocks = nil
	u.portfolios = nil
	u.transactions = nil
	u.targets = nil
	u.balances = nil
	u.journal = nil
}

// Repository accessors. Inside an Active scope each repository is built
// once, bound to the scope's transaction, and cached so the same instance
// answers every call — no mid-transaction connection switching.

func (u *UnitOfWork) Stocks() *sqlite.StockRepo {
	if u.tx == nil {
		return sqlite.NewStockRepo(u.cfg, u.db)
	}
	if u.stocks == nil {
		u.stocks = sqlite.NewStockRepo(u.cfg, u.tx)
	}
	return u.stocks
}

func (u *UnitOfWork) Portfolios() *sqlite.PortfolioRepo {
	if u.tx == nil {
		return sqlite.NewPortfolioRepo(u.cfg, u.db)
	}
	if u.portfolios == nil {
		u.portfolios = sqlite.NewPortfolioRepo(u.cfg, u.tx)
	}
	return u.portfolios
}

func (u *UnitOfWork) Transactions() *sqlite.TransactionRepo {
	if u.tx == nil {
		return sqlite.NewTransactionRepo(u.cfg, u.db)
	}
	if u.transactions == nil {
		u.transactions = sqlite.NewTransactionRepo(u.cfg, u.tx)
	}
	return u.transactions
}

func (u *UnitOfWork) Targets() *sqlite.TargetRepo {
	if u.tx == nil {
		return sqlite.NewTargetRepo(u.cfg, u.db)
	}
	if u.targets == nil {
		u.targets = sqlite.NewTargetRepo(u.cfg, u.tx)
	}
	return u.targets
}

func (u *UnitOfWork) Balances() *sqlite.BalanceRepo {
	if u.tx == nil {
		return sqlite.NewBalanceRepo(u.cfg, u.db)
	}
	if u.balances == nil {
		u.balances = sqlite.NewBalanceRepo(u.cfg, u.tx)
	}
	return u.balances
}

func (u *UnitOfWork) Journal() *sqlite.JournalRepo {
	if u.tx == nil {
		return sqlite.NewJournalRepo(u.cfg, u.db)
	}
	if u.journal == nil {
		u.journal = sqlite.NewJournalRepo(u.cfg, u.tx)
	}
	return u.journal
}
