package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/payment-ledger/internal/middleware"
	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/repository"
)

// postPayment runs Create against a request body as an authenticated viewer.
// Validation happens before any store access, so a nil-backed repo is safe
// for requests that must be rejected.
func postPayment(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(7))
	c.Set(middleware.CtxRole, model.RoleViewer)

	h := NewPaymentHandler(repository.NewPaymentRepo(nil))
	require.NoError(t, h.Create(c))
	return rec
}

func TestPaymentCreate_RejectsInvalidBodies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"negative amount", `{"amount":-5,"paymentMethod":"paypal"}`},
		{"unknown method", `{"amount":10,"paymentMethod":"cheque"}`},
		{"missing method", `{"amount":10}`},
		{"unknown status", `{"amount":10,"paymentMethod":"paypal","status":"refunded"}`},
		{"failure reason on non-failed", `{"amount":10,"paymentMethod":"paypal","status":"pending","failureReason":"card declined"}`},
		{"malformed json", `{"amount":`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := postPayment(t, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Error struct {
					Kind string `json:"kind"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "validation", resp.Error.Kind)
		})
	}
}
