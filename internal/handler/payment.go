package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/queue"
	"github.com/iliyamo/payment-ledger/internal/repository"
	queue_publisher "github.com/iliyamo/payment-ledger/internal/service"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PaymentHandler bundles dependencies for the ledger endpoints.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
}

func NewPaymentHandler(p *repository.PaymentRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p}
}

type createPaymentReq struct {
	Amount        float64     `json:"amount"`
	Currency      string      `json:"currency"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Sender        model.Party `json:"sender"`
	Receiver      model.Party `json:"receiver"`
	Description   string      `json:"description"`
	FailureReason string      `json:"failureReason"`
}

type updatePaymentReq struct {
	Amount        *float64     `json:"amount"`
	Currency      *string      `json:"currency"`
	Status        *string      `json:"status"`
	PaymentMethod *string      `json:"paymentMethod"`
	Sender        *model.Party `json:"sender"`
	Receiver      *model.Party `json:"receiver"`
	Description   *string      `json:"description"`
	FailureReason *string      `json:"failureReason"`
}

type listResp struct {
	Payments   []model.Payment `json:"payments"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int64           `json:"totalPages"`
}

// List handles GET /api/payments with paging and filters. Admins see the
// whole ledger; viewers only their own records.
func (h *PaymentHandler) List(c echo.Context) error {
	f, page, limit, err := parseListQuery(c.QueryParams().Get, ownerScope(c))
	if err != nil {
		return fail(c, http.StatusBadRequest, "validation", err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, total, pages, err := h.Payments.List(ctx, f, page, limit)
	if err != nil {
		return storeFail(c, err, "")
	}
	return c.JSON(http.StatusOK, listResp{
		Payments:   rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pages,
	})
}

// Get handles GET /api/payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.GetByID(ctx, id, ownerScope(c))
	if err != nil {
		return storeFail(c, err, "payment not found")
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /api/payments. The server assigns the transaction id;
// any client-supplied id is ignored by virtue of not being bindable. The
// recorded event is published best-effort and never fails the request.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid body")
	}
	if req.Amount < 0 {
		return fail(c, http.StatusBadRequest, "validation", "amount must be non-negative")
	}
	if !model.ValidMethod(req.PaymentMethod) {
		return fail(c, http.StatusBadRequest, "validation", "unknown payment method")
	}
	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	if !model.ValidStatus(status) {
		return fail(c, http.StatusBadRequest, "validation", "unknown status")
	}
	if req.FailureReason != "" && status != model.StatusFailed {
		return fail(c, http.StatusBadRequest, "validation", "failureReason is only valid for failed payments")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Payment{
		Amount:        req.Amount,
		Currency:      currency,
		Status:        status,
		PaymentMethod: req.PaymentMethod,
		Sender:        req.Sender,
		Receiver:      req.Receiver,
		Description:   strings.TrimSpace(req.Description),
		FailureReason: strings.TrimSpace(req.FailureReason),
		UserID:        callerID(c),
	}
	if err := h.Payments.Create(ctx, &p); err != nil {
		return storeFail(c, err, "")
	}

	if err := queue_publisher.PublishPaymentRecorded(ctx, queue.PaymentRecordedEvent{
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		UserID:        p.UserID,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}); err != nil {
		log.Printf("payment event publish failed for %s: %v", p.TransactionID, err)
	}

	return c.JSON(http.StatusCreated, p)
}

// Update handles PATCH /api/payments/:id, owner-scoped for viewers. The
// transaction id is immutable; a transition to success stamps processedAt in
// the repository.
func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid id")
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid body")
	}
	if req.Amount != nil && *req.Amount < 0 {
		return fail(c, http.StatusBadRequest, "validation", "amount must be non-negative")
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return fail(c, http.StatusBadRequest, "validation", "unknown status")
	}
	if req.PaymentMethod != nil && !model.ValidMethod(*req.PaymentMethod) {
		return fail(c, http.StatusBadRequest, "validation", "unknown payment method")
	}
	if req.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*req.Currency))
		req.Currency = &cur
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	scope := ownerScope(c)
	patch := repository.PaymentPatch{
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Sender:        req.Sender,
		Receiver:      req.Receiver,
		Description:   req.Description,
		FailureReason: req.FailureReason,
	}
	if err := h.Payments.Update(ctx, id, patch, scope); err != nil {
		return storeFail(c, err, "payment not found")
	}
	p, err := h.Payments.GetByID(ctx, id, scope)
	if err != nil {
		return storeFail(c, err, "payment not found")
	}
	return c.JSON(http.StatusOK, p)
}

// Remove handles DELETE /api/payments/:id, owner-scoped for viewers.
func (h *PaymentHandler) Remove(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.Delete(ctx, id, ownerScope(c)); err != nil {
		return storeFail(c, err, "payment not found")
	}
	return c.NoContent(http.StatusNoContent)
}
