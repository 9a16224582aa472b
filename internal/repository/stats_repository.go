package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/payment-ledger/internal/model"
)

// StatsRepo computes derived metrics over the payments table. Aggregate
// reads are not linearizable with concurrent writes; a stats response may
// reflect a partially applied write set, which is acceptable for dashboards.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// StatusStat is one row of the per-status breakdown. Statuses with no
// matching records are omitted entirely; callers treat an absent key as zero.
type StatusStat struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

// MethodStat is one row of the per-method breakdown.
type MethodStat struct {
	Method string  `json:"method"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

// DailyStat is one day of the time series, keyed by local calendar date.
type DailyStat struct {
	Date  string  `json:"date"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

// Stats is the aggregate metrics object served by the stats endpoint.
// Revenue sums cover successful payments only.
type Stats struct {
	TodayTransactions  int64        `json:"todayTransactions"`
	WeekTransactions   int64        `json:"weekTransactions"`
	TotalRevenue       float64      `json:"totalRevenue"`
	TodayRevenue       float64      `json:"todayRevenue"`
	FailedTransactions int64        `json:"failedTransactions"`
	StatusStats        []StatusStat `json:"statusStats"`
	MethodStats        []MethodStat `json:"methodStats"`
	DailyStats         []DailyStat  `json:"dailyStats"`
}

// Collect computes the full metrics object. A non-zero ownerID scopes every
// query to that owner's payments. days controls the daily series window
// (trailing, today included); callers clamp it before passing it in.
func (r *StatsRepo) Collect(ctx context.Context, ownerID uint64, days int) (*Stats, error) {
	now := time.Now()
	today := dayStart(now)
	weekAgo := dayStart(now.AddDate(0, 0, -7))
	seriesStart := dayStart(now.AddDate(0, 0, -(days - 1)))

	owner := ""
	ownerArgs := []any{}
	if ownerID != 0 {
		owner = " AND user_id=?"
		ownerArgs = append(ownerArgs, ownerID)
	}

	s := &Stats{}
	var err error

	if s.TodayTransactions, err = r.count(ctx,
		"status=? AND created_at >= ?"+owner,
		append([]any{model.StatusSuccess, today}, ownerArgs...)...); err != nil {
		return nil, err
	}
	if s.WeekTransactions, err = r.count(ctx,
		"status=? AND created_at >= ?"+owner,
		append([]any{model.StatusSuccess, weekAgo}, ownerArgs...)...); err != nil {
		return nil, err
	}
	if s.FailedTransactions, err = r.count(ctx,
		"status=?"+owner,
		append([]any{model.StatusFailed}, ownerArgs...)...); err != nil {
		return nil, err
	}
	if s.TotalRevenue, err = r.revenue(ctx,
		"status=?"+owner,
		append([]any{model.StatusSuccess}, ownerArgs...)...); err != nil {
		return nil, err
	}
	if s.TodayRevenue, err = r.revenue(ctx,
		"status=? AND created_at >= ?"+owner,
		append([]any{model.StatusSuccess, today}, ownerArgs...)...); err != nil {
		return nil, err
	}

	if err = r.statusBreakdown(ctx, s, owner, ownerArgs); err != nil {
		return nil, err
	}
	if err = r.methodBreakdown(ctx, s, owner, ownerArgs); err != nil {
		return nil, err
	}
	if err = r.dailySeries(ctx, s, seriesStart, owner, ownerArgs); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StatsRepo) count(ctx context.Context, cond string, args ...any) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments WHERE "+cond, args...).Scan(&n)
	return n, translate(err)
}

func (r *StatsRepo) revenue(ctx context.Context, cond string, args ...any) (float64, error) {
	var sum float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount),0) FROM payments WHERE "+cond, args...).Scan(&sum)
	return sum, translate(err)
}

// statusBreakdown groups counts and sums by status. GROUP BY naturally omits
// empty groups, which matches the contract: absent status key means zero.
func (r *StatsRepo) statusBreakdown(ctx context.Context, s *Stats, owner string, ownerArgs []any) error {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COUNT(*), COALESCE(SUM(amount),0) FROM payments WHERE 1=1"+owner+
			" GROUP BY status ORDER BY status", ownerArgs...)
	if err != nil {
		return translate(err)
	}
	defer rows.Close()
	for rows.Next() {
		var st StatusStat
		if err := rows.Scan(&st.Status, &st.Count, &st.Total); err != nil {
			return err
		}
		s.StatusStats = append(s.StatusStats, st)
	}
	return translate(rows.Err())
}

func (r *StatsRepo) methodBreakdown(ctx context.Context, s *Stats, owner string, ownerArgs []any) error {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT payment_method, COUNT(*), COALESCE(SUM(amount),0) FROM payments WHERE 1=1"+owner+
			" GROUP BY payment_method ORDER BY payment_method", ownerArgs...)
	if err != nil {
		return translate(err)
	}
	defer rows.Close()
	for rows.Next() {
		var m MethodStat
		if err := rows.Scan(&m.Method, &m.Count, &m.Total); err != nil {
			return err
		}
		s.MethodStats = append(s.MethodStats, m)
	}
	return translate(rows.Err())
}

func (r *StatsRepo) dailySeries(ctx context.Context, s *Stats, since time.Time, owner string, ownerArgs []any) error {
	args := append([]any{since}, ownerArgs...)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DATE_FORMAT(created_at, '%Y-%m-%d'), COUNT(*), COALESCE(SUM(amount),0)"+
			" FROM payments WHERE created_at >= ?"+owner+
			" GROUP BY DATE_FORMAT(created_at, '%Y-%m-%d') ORDER BY 1", args...)
	if err != nil {
		return translate(err)
	}
	defer rows.Close()
	for rows.Next() {
		var d DailyStat
		if err := rows.Scan(&d.Date, &d.Count, &d.Total); err != nil {
			return err
		}
		s.DailyStats = append(s.DailyStats, d)
	}
	return translate(rows.Err())
}

// dayStart returns local midnight of the day containing t. Day boundaries
// for "today" and the trailing week are local, not UTC.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
