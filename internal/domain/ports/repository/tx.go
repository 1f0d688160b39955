package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle passed through use-case code. The
// concrete type is infra-defined (pgx.Tx for Postgres). Repositories accept
// NoTX for the non-transactional path.
type Tx interface{}

var NoTX Tx

// TransactionManager executes a function inside a database transaction,
// passing the handle via tx. Keeping the handle opaque keeps use-case
// interfaces free of storage types.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
