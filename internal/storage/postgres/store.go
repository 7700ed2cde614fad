package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bridgeScope/internal/model"
)

// Store caches aggregated history in Postgres. It is a hint, never an
// oracle: the explorer feeds stay authoritative and every aggregation
// recomputes from them.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the cache table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bridge_transactions (
			chain         text        NOT NULL,
			tx_hash       text        NOT NULL,
			tx_type       text        NOT NULL,
			wallet        text        NOT NULL,
			amount        text        NOT NULL,
			timestamp_ms  bigint      NOT NULL,
			status        text        NOT NULL,
			from_address  text        NOT NULL,
			to_address    text        NOT NULL,
			block_number  bigint      NOT NULL,
			gas_used      bigint      NOT NULL,
			gas_price     text        NOT NULL,
			created_at    timestamptz NOT NULL DEFAULT now(),
			updated_at    timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (chain, tx_hash)
		)
	`)
	return err
}

// UpsertTransactions inserts or updates a batch of canonical transactions
// for one wallet.
func (s *Store) UpsertTransactions(ctx context.Context, wallet string, txs []model.CanonicalTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, tx := range txs {
		batch.Queue(`
			INSERT INTO bridge_transactions (
				chain, tx_hash, tx_type, wallet, amount, timestamp_ms, status,
				from_address, to_address, block_number, gas_used, gas_price, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
			ON CONFLICT (chain, tx_hash)
			DO UPDATE SET
				tx_type = EXCLUDED.tx_type,
				amount = EXCLUDED.amount,
				timestamp_ms = EXCLUDED.timestamp_ms,
				status = EXCLUDED.status,
				from_address = EXCLUDED.from_address,
				to_address = EXCLUDED.to_address,
				block_number = EXCLUDED.block_number,
				gas_used = EXCLUDED.gas_used,
				gas_price = EXCLUDED.gas_price,
				updated_at = now()
		`,
			tx.Chain,
			tx.TxHash,
			string(tx.Type),
			wallet,
			tx.Amount,
			tx.TimestampMs,
			string(tx.Status),
			tx.FromAddress,
			tx.ToAddress,
			int64(tx.BlockNumber),
			int64(tx.GasUsed),
			tx.GasPrice,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range txs {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadTransactions returns the cached history for a wallet, newest first.
func (s *Store) LoadTransactions(ctx context.Context, wallet string, limit int) ([]model.CanonicalTransaction, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx, `
		SELECT chain, tx_hash, tx_type, amount, timestamp_ms, status,
		       from_address, to_address, block_number, gas_used, gas_price
		FROM bridge_transactions
		WHERE wallet = $1
		ORDER BY timestamp_ms DESC
		LIMIT $2
	`, wallet, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []model.CanonicalTransaction
	for rows.Next() {
		var tx model.CanonicalTransaction
		var txType, status string
		var blockNumber, gasUsed int64
		if err := rows.Scan(
			&tx.Chain, &tx.TxHash, &txType, &tx.Amount, &tx.TimestampMs, &status,
			&tx.FromAddress, &tx.ToAddress, &blockNumber, &gasUsed, &tx.GasPrice,
		); err != nil {
			return nil, err
		}
		tx.ID = tx.TxHash
		tx.Type = model.TxType(txType)
		tx.Status = model.TxStatus(status)
		tx.BlockNumber = uint64(blockNumber)
		tx.GasUsed = uint64(gasUsed)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
