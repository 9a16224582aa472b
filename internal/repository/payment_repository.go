package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/utils"
)

const paymentColumns = `id, transaction_id, amount, currency, status, payment_method,
	sender_name, sender_email, sender_phone,
	receiver_name, receiver_email, receiver_phone,
	description, failure_reason, processed_at, user_id, created_at, updated_at`

// txnIDAttempts bounds regeneration when a generated transaction id collides
// with an existing row. Past this the insert surfaces ErrConflict.
const txnIDAttempts = 3

// PaymentRepo encapsulates all database queries against the `payments` table.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

// PaymentFilter defines the selection criteria for List. Zero values mean
// "no constraint". The date range is inclusive on both ends and applies to
// the record's creation time. OwnerID restricts results to one owner; zero
// leaves the query unscoped.
type PaymentFilter struct {
	Status  string
	Method  string
	Start   *time.Time
	End     *time.Time
	OwnerID uint64
}

// PaymentPatch carries the mutable fields of a payment. Nil pointers leave
// the stored value untouched. The transaction id is immutable and therefore
// absent here.
type PaymentPatch struct {
	Amount        *float64
	Currency      *string
	Status        *string
	PaymentMethod *string
	Sender        *model.Party
	Receiver      *model.Party
	Description   *string
	FailureReason *string
}

// Create inserts a payment with a freshly generated transaction id,
// regenerating on the rare duplicate-id collision instead of failing the
// caller. ProcessedAt is stamped iff the initial status is success. The
// caller's record is populated with id, transaction id and timestamps.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	var processedAt *time.Time
	if p.Status == model.StatusSuccess {
		now := time.Now()
		processedAt = &now
	}
	p.ProcessedAt = processedAt

	var lastErr error
	for attempt := 0; attempt < txnIDAttempts; attempt++ {
		p.TransactionID = utils.NewTransactionID()
		res, err := r.DB.ExecContext(ctx,
			`INSERT INTO payments
			(transaction_id, amount, currency, status, payment_method,
			 sender_name, sender_email, sender_phone,
			 receiver_name, receiver_email, receiver_phone,
			 description, failure_reason, processed_at, user_id)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			p.TransactionID, p.Amount, p.Currency, p.Status, p.PaymentMethod,
			nullStr(p.Sender.Name), nullStr(p.Sender.Email), nullStr(p.Sender.Phone),
			nullStr(p.Receiver.Name), nullStr(p.Receiver.Email), nullStr(p.Receiver.Phone),
			nullStr(p.Description), nullStr(p.FailureReason), processedAt, nullID(p.UserID))
		if err != nil {
			lastErr = translate(err)
			if lastErr == ErrConflict {
				continue // id collision, regenerate
			}
			return lastErr
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = uint64(id)
		return r.DB.QueryRowContext(ctx,
			"SELECT created_at, updated_at FROM payments WHERE id=?", p.ID).
			Scan(&p.CreatedAt, &p.UpdatedAt)
	}
	return lastErr
}

// GetByID fetches one payment. A non-zero ownerID scopes the lookup: a row
// owned by a different user reads as ErrNotFound, never anything that would
// reveal its existence.
func (r *PaymentRepo) GetByID(ctx context.Context, id, ownerID uint64) (model.Payment, error) {
	q := "SELECT " + paymentColumns + " FROM payments WHERE id=?"
	args := []any{id}
	if ownerID != 0 {
		q += " AND user_id=?"
		args = append(args, ownerID)
	}
	row := r.DB.QueryRowContext(ctx, q+" LIMIT 1", args...)
	p, err := scanPayment(row)
	if err != nil {
		return model.Payment{}, translate(err)
	}
	return p, nil
}

// List returns one page of payments matching the filter, newest first, along
// with the total matching count and the total page count. Page numbers are
// 1-indexed; page/limit are assumed already clamped by the caller.
func (r *PaymentRepo) List(ctx context.Context, f PaymentFilter, page, limit int) ([]model.Payment, int64, int64, error) {
	cond, args := buildPaymentWhere(f)

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, 0, translate(err)
	}

	offset := (page - 1) * limit
	dataSQL := "SELECT " + paymentColumns + " FROM payments WHERE " + cond +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, 0, translate(err)
	}
	defer rows.Close()

	out := make([]model.Payment, 0, limit)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, translate(err)
	}
	return out, total, totalPages(total, limit), nil
}

// Update applies a patch to one payment. A non-zero ownerID makes the update
// owner-scoped with the same not-found semantics as GetByID. A status
// transition to success stamps processed_at; any other status leaves it
// untouched.
func (r *PaymentRepo) Update(ctx context.Context, id uint64, p PaymentPatch, ownerID uint64) error {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if p.Amount != nil {
		add("amount", *p.Amount)
	}
	if p.Currency != nil {
		add("currency", *p.Currency)
	}
	if p.Status != nil {
		add("status", *p.Status)
		if *p.Status == model.StatusSuccess {
			add("processed_at", time.Now())
		}
	}
	if p.PaymentMethod != nil {
		add("payment_method", *p.PaymentMethod)
	}
	if p.Sender != nil {
		add("sender_name", nullStr(p.Sender.Name))
		add("sender_email", nullStr(p.Sender.Email))
		add("sender_phone", nullStr(p.Sender.Phone))
	}
	if p.Receiver != nil {
		add("receiver_name", nullStr(p.Receiver.Name))
		add("receiver_email", nullStr(p.Receiver.Email))
		add("receiver_phone", nullStr(p.Receiver.Phone))
	}
	if p.Description != nil {
		add("description", nullStr(*p.Description))
	}
	if p.FailureReason != nil {
		add("failure_reason", nullStr(*p.FailureReason))
	}
	if len(set) == 0 {
		return nil
	}

	q := "UPDATE payments SET " + strings.Join(set, ", ") + " WHERE id=?"
	args = append(args, id)
	if ownerID != 0 {
		q += " AND user_id=?"
		args = append(args, ownerID)
	}
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one payment, owner-scoped when ownerID is non-zero.
func (r *PaymentRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	q := "DELETE FROM payments WHERE id=?"
	args := []any{id}
	if ownerID != 0 {
		q += " AND user_id=?"
		args = append(args, ownerID)
	}
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// buildPaymentWhere assembles the WHERE clause for a filter. The returned
// condition is always non-empty so callers can concatenate it directly.
func buildPaymentWhere(f PaymentFilter) (string, []any) {
	where := []string{}
	args := []any{}

	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.Method != "" {
		where = append(where, "payment_method=?")
		args = append(args, f.Method)
	}
	if f.Start != nil {
		where = append(where, "created_at >= ?")
		args = append(args, *f.Start)
	}
	if f.End != nil {
		where = append(where, "created_at <= ?")
		args = append(args, *f.End)
	}
	if f.OwnerID != 0 {
		where = append(where, "user_id=?")
		args = append(args, f.OwnerID)
	}

	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// totalPages computes ceil(total/limit) without floating point.
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanPayment(row rowScanner) (model.Payment, error) {
	var (
		p                       model.Payment
		sName, sEmail, sPhone   sql.NullString
		rName, rEmail, rPhone   sql.NullString
		desc, failReason        sql.NullString
		processedAt             sql.NullTime
		userID                  sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.TransactionID, &p.Amount, &p.Currency, &p.Status, &p.PaymentMethod,
		&sName, &sEmail, &sPhone,
		&rName, &rEmail, &rPhone,
		&desc, &failReason, &processedAt, &userID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Payment{}, err
	}
	p.Sender = model.Party{Name: sName.String, Email: sEmail.String, Phone: sPhone.String}
	p.Receiver = model.Party{Name: rName.String, Email: rEmail.String, Phone: rPhone.String}
	p.Description = desc.String
	p.FailureReason = failReason.String
	if processedAt.Valid {
		t := processedAt.Time
		p.ProcessedAt = &t
	}
	if userID.Valid {
		p.UserID = uint64(userID.Int64)
	}
	return p, nil
}

// nullStr maps "" to NULL so optional text columns stay NULL instead of
// accumulating empty strings.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullID maps 0 to NULL for the optional owning user reference.
func nullID(id uint64) any {
	if id == 0 {
		return nil
	}
	return id
}
