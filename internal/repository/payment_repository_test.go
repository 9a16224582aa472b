package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaymentWhere(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.Local)

	tests := []struct {
		name     string
		filter   PaymentFilter
		wantCond string
		wantArgs []any
	}{
		{
			name:     "empty filter matches everything",
			filter:   PaymentFilter{},
			wantCond: "1=1",
			wantArgs: []any{},
		},
		{
			name:     "status only",
			filter:   PaymentFilter{Status: "success"},
			wantCond: "status=?",
			wantArgs: []any{"success"},
		},
		{
			name:     "status and method",
			filter:   PaymentFilter{Status: "failed", Method: "paypal"},
			wantCond: "status=? AND payment_method=?",
			wantArgs: []any{"failed", "paypal"},
		},
		{
			name:     "inclusive date range",
			filter:   PaymentFilter{Start: &start, End: &end},
			wantCond: "created_at >= ? AND created_at <= ?",
			wantArgs: []any{start, end},
		},
		{
			name:     "owner scope",
			filter:   PaymentFilter{OwnerID: 9},
			wantCond: "user_id=?",
			wantArgs: []any{uint64(9)},
		},
		{
			name:     "everything combined",
			filter:   PaymentFilter{Status: "pending", Method: "crypto", Start: &start, OwnerID: 3},
			wantCond: "status=? AND payment_method=? AND created_at >= ? AND user_id=?",
			wantArgs: []any{"pending", "crypto", start, uint64(3)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, args := buildPaymentWhere(tt.filter)
			assert.Equal(t, tt.wantCond, cond)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{25, 10, 3},
		{30, 10, 3},
		{31, 10, 4},
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{7, 0, 0}, // guarded, callers clamp limit anyway
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.total, tt.limit),
			"total=%d limit=%d", tt.total, tt.limit)
	}
}
