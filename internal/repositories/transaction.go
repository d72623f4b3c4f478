package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"shoppit/internal/models"
)

// TransactionRepository handles the payment ledger. Ledger rows are
// append-mostly: they are created pending, moved at most once to a
// terminal status, and never deleted.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create opens a new pending ledger entry for one payment attempt
func (r *TransactionRepository) Create(req *models.TransactionCreateRequest) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transactions (ref, cart_id, amount, currency, status, user_id, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, ref, cart_id, amount, currency, status, user_id, created_at, modified_at`

	now := time.Now()
	txn := &models.Transaction{}

	err := r.db.QueryRow(
		query,
		req.Ref,
		req.CartID,
		req.Amount,
		req.Currency,
		models.TransactionPending,
		req.UserID,
		now,
		now,
	).Scan(
		&txn.ID,
		&txn.Ref,
		&txn.CartID,
		&txn.Amount,
		&txn.Currency,
		&txn.Status,
		&txn.UserID,
		&txn.CreatedAt,
		&txn.ModifiedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return txn, nil
}

// GetByRef retrieves a transaction by its unique reference
func (r *TransactionRepository) GetByRef(ref string) (*models.Transaction, error) {
	query := `
		SELECT id, ref, cart_id, amount, currency, status, user_id, created_at, modified_at
		FROM transactions
		WHERE ref = $1`

	txn := &models.Transaction{}
	err := r.db.QueryRow(query, ref).Scan(
		&txn.ID,
		&txn.Ref,
		&txn.CartID,
		&txn.Amount,
		&txn.Currency,
		&txn.Status,
		&txn.UserID,
		&txn.CreatedAt,
		&txn.ModifiedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// Complete moves a transaction from pending to completed and marks its cart
// paid, attaching the acting user, in a single database transaction. The
// status update is guarded on status = 'pending' so that when duplicate
// provider callbacks race, only the first one performs the transition; the
// others see zero rows and return completed = false without touching the
// cart again.
func (r *TransactionRepository) Complete(ref string, userID *int) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cartID int
	err = tx.QueryRow(`
		UPDATE transactions
		SET status = $2, modified_at = $3
		WHERE ref = $1 AND status = $4
		RETURNING cart_id`,
		ref, models.TransactionCompleted, time.Now(), models.TransactionPending,
	).Scan(&cartID)

	if err == sql.ErrNoRows {
		// Either the ref is unknown or another callback already finished
		// the transition. Distinguish the two for the caller.
		var exists bool
		if err := tx.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM transactions WHERE ref = $1)", ref,
		).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check transaction existence: %w", err)
		}
		if !exists {
			return false, models.ErrTransactionNotFound
		}
		return false, tx.Commit()
	}
	if err != nil {
		return false, fmt.Errorf("failed to complete transaction: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE carts
		SET paid = TRUE, user_id = COALESCE($2, user_id), modified_at = $3
		WHERE id = $1`,
		cartID, userID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to mark cart paid: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction completion: %w", err)
	}

	return true, nil
}

// MarkFailed moves a pending transaction to failed. The update is guarded
// the same way as Complete; a transaction already in a terminal state is
// left untouched and failed = false is returned.
func (r *TransactionRepository) MarkFailed(ref string) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE transactions
		SET status = $2, modified_at = $3
		WHERE ref = $1 AND status = $4`,
		ref, models.TransactionFailed, time.Now(), models.TransactionPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark transaction failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// FailStale marks pending transactions older than the cutoff as failed and
// returns how many rows were swept. Carts are not touched: an abandoned
// attempt never made the cart paid in the first place.
func (r *TransactionRepository) FailStale(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result, err := r.db.Exec(`
		UPDATE transactions
		SET status = $1, modified_at = $2
		WHERE status = $3 AND created_at < $4`,
		models.TransactionFailed, time.Now(), models.TransactionPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale transactions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// GetByCart retrieves all payment attempts for a cart, newest first
func (r *TransactionRepository) GetByCart(cartID int) ([]*models.Transaction, error) {
	query := `
		SELECT id, ref, cart_id, amount, currency, status, user_id, created_at, modified_at
		FROM transactions
		WHERE cart_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		err := rows.Scan(
			&txn.ID,
			&txn.Ref,
			&txn.CartID,
			&txn.Amount,
			&txn.Currency,
			&txn.Status,
			&txn.UserID,
			&txn.CreatedAt,
			&txn.ModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}
