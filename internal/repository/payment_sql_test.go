package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/payment-ledger/internal/model"
)

func newPaymentRepoMock(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPaymentRepo(db), mock, db
}

// presentArg matches any non-NULL bind parameter.
type presentArg struct{}

func (presentArg) Match(v driver.Value) bool { return v != nil }

func expectTimestampFollowup(mock sqlmock.Sqlmock, id int64) {
	now := time.Now()
	mock.ExpectQuery(`SELECT created_at, updated_at FROM payments WHERE id=\?`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
}

func TestPaymentCreate_SuccessStampsProcessedAt(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(
			sqlmock.AnyArg(), 150.0, "USD", "success", "credit_card",
			nil, nil, nil,
			nil, nil, nil,
			nil, nil, presentArg{}, nil,
		).
		WillReturnResult(sqlmock.NewResult(7, 1))
	expectTimestampFollowup(mock, 7)

	p := model.Payment{Amount: 150, Currency: "USD", Status: model.StatusSuccess, PaymentMethod: model.MethodCreditCard}
	if err := repo.Create(context.Background(), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProcessedAt == nil {
		t.Fatal("successful payment must carry processedAt")
	}
	if p.ID != 7 {
		t.Fatalf("want id 7, got %d", p.ID)
	}
	if !strings.HasPrefix(p.TransactionID, "TXN") {
		t.Fatalf("unexpected transaction id %q", p.TransactionID)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatal("timestamps not populated from the follow-up read")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentCreate_PendingLeavesProcessedAtNil(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(
			sqlmock.AnyArg(), 25.0, "USD", "pending", "paypal",
			nil, nil, nil,
			nil, nil, nil,
			nil, nil, nil, nil,
		).
		WillReturnResult(sqlmock.NewResult(3, 1))
	expectTimestampFollowup(mock, 3)

	p := model.Payment{Amount: 25, Currency: "USD", Status: model.StatusPending, PaymentMethod: model.MethodPayPal}
	if err := repo.Create(context.Background(), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProcessedAt != nil {
		t.Fatal("pending payment must not carry processedAt")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentCreate_RegeneratesIDOnCollision(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	expectTimestampFollowup(mock, 11)

	p := model.Payment{Amount: 10, Currency: "USD", Status: model.StatusPending, PaymentMethod: model.MethodCrypto}
	if err := repo.Create(context.Background(), &p); err != nil {
		t.Fatalf("collision should be retried with a fresh id, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentCreate_ConflictAfterExhaustedRetries(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	for i := 0; i < txnIDAttempts; i++ {
		mock.ExpectExec(`INSERT INTO payments`).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	}

	p := model.Payment{Amount: 10, Currency: "USD", Status: model.StatusPending, PaymentMethod: model.MethodCrypto}
	err := repo.Create(context.Background(), &p)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentUpdate_SuccessTransitionStampsProcessedAt(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE payments SET status=\?, processed_at=\? WHERE id=\?`).
		WithArgs("success", presentArg{}, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status := model.StatusSuccess
	if err := repo.Update(context.Background(), 4, PaymentPatch{Status: &status}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentUpdate_OwnerScopedMissReadsAsNotFound(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE payments SET amount=\? WHERE id=\? AND user_id=\?`).
		WithArgs(50.0, 4, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	amount := 50.0
	err := repo.Update(context.Background(), 4, PaymentPatch{Amount: &amount}, 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for someone else's record, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentDelete_OwnerScopedMissReadsAsNotFound(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM payments WHERE id=\? AND user_id=\?`).
		WithArgs(4, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 4, 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for someone else's record, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentGetByID_OtherOwnerReadsAsNotFound(t *testing.T) {
	repo, mock, db := newPaymentRepoMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM payments WHERE id=\? AND user_id=\? LIMIT 1`).
		WithArgs(4, 9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 4, 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
