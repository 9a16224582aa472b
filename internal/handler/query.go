package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/repository"
)

// parseListQuery turns the raw query parameters of GET /api/payments into a
// filter plus clamped paging values. get is the query accessor (kept as a
// function so the parsing is testable without an HTTP request). page
// defaults to 1, limit to 10 with a hard cap of 100. The date range is
// inclusive: a date-only endDate covers the whole end day.
func parseListQuery(get func(string) string, owner uint64) (repository.PaymentFilter, int, int, error) {
	f := repository.PaymentFilter{OwnerID: owner}

	if s := get("status"); s != "" {
		if !model.ValidStatus(s) {
			return f, 0, 0, errors.New("unknown status")
		}
		f.Status = s
	}
	if m := get("paymentMethod"); m != "" {
		if !model.ValidMethod(m) {
			return f, 0, 0, errors.New("unknown payment method")
		}
		f.Method = m
	}
	if v := get("startDate"); v != "" {
		t, _, err := parseDate(v)
		if err != nil {
			return f, 0, 0, errors.New("startDate must be YYYY-MM-DD or RFC 3339")
		}
		f.Start = &t
	}
	if v := get("endDate"); v != "" {
		t, dateOnly, err := parseDate(v)
		if err != nil {
			return f, 0, 0, errors.New("endDate must be YYYY-MM-DD or RFC 3339")
		}
		if dateOnly {
			// push to the last instant of the day so the bound stays inclusive
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.End = &t
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return f, 0, 0, errors.New("endDate precedes startDate")
	}

	page := 1
	if v := get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, 0, 0, errors.New("page must be a positive integer")
		}
		page = n
	}
	limit := defaultPageSize
	if v := get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, 0, 0, errors.New("limit must be a positive integer")
		}
		limit = n
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return f, page, limit, nil
}

// parseDate accepts YYYY-MM-DD (interpreted in local time) or full RFC 3339.
// The second return reports whether the value was date-only.
func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}
