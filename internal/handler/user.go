package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/payment-ledger/internal/config"
	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/policy"
	"github.com/iliyamo/payment-ledger/internal/repository"
)

// UserHandler bundles dependencies for the user management endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type createUserReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type updateUserReq struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	IsActive  *bool   `json:"isActive"`
}

// List handles GET /api/users. Password hashes never serialize.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return storeFail(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return storeFail(c, err, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /api/users (admin only, enforced by the route's
// policy operation). Unlike self-registration the role is settable here.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid body")
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "validation", "username, email and password are required")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleViewer
	}
	if role != model.RoleAdmin && role != model.RoleViewer {
		return fail(c, http.StatusBadRequest, "validation", "role must be admin or viewer")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      role,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := h.Users.Create(ctx, &u, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "conflict", "username or email already taken")
		}
		return storeFail(c, err, "")
	}
	return c.JSON(http.StatusCreated, u)
}

// Update handles PATCH /api/users/:id. Users may update their own profile;
// updating anyone else requires the user-write policy. Role and active-flag
// changes are admin-only regardless of target.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid id")
	}
	isAdminOp := policy.Allowed(callerRole(c), policy.UserWrite)
	if id != callerID(c) && !isAdminOp {
		return fail(c, http.StatusForbidden, "forbidden", "insufficient role")
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid body")
	}
	if req.Role != nil {
		if !isAdminOp {
			return fail(c, http.StatusForbidden, "forbidden", "insufficient role")
		}
		r := strings.ToLower(strings.TrimSpace(*req.Role))
		if r != model.RoleAdmin && r != model.RoleViewer {
			return fail(c, http.StatusBadRequest, "validation", "role must be admin or viewer")
		}
		req.Role = &r
	}
	if req.IsActive != nil && !isAdminOp {
		return fail(c, http.StatusForbidden, "forbidden", "insufficient role")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	patch := repository.UserPatch{
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	}
	if err := h.Users.Update(ctx, id, patch, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "conflict", "email already taken")
		}
		return storeFail(c, err, "user not found")
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return storeFail(c, err, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}

// Remove handles DELETE /api/users/:id by deactivating the account. The row
// stays so payment ownership references remain resolvable.
func (h *UserHandler) Remove(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Deactivate(ctx, id); err != nil {
		return storeFail(c, err, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}
