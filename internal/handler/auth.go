package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/payment-ledger/internal/config"
	"github.com/iliyamo/payment-ledger/internal/middleware"
	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/repository"
	"github.com/iliyamo/payment-ledger/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResp struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Register creates a viewer account and returns a session immediately.
// Self-registration never grants admin; only an admin can create admins via
// the users endpoint.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid body")
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "validation", "username, email and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      model.RoleViewer,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := h.Users.Create(ctx, &u, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "conflict", "username or email already taken")
		}
		return storeFail(c, err, "")
	}

	token, _, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.SessionTTLHours)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "could not issue session")
	}
	return c.JSON(http.StatusCreated, authResp{Token: token, User: u})
}

// Login verifies credentials and returns a session token. The response for
// an unknown username, a wrong password and a deactivated account is
// identical on purpose.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation", "invalid body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "validation", "username and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		}
		return storeFail(c, err, "")
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	}

	token, _, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.SessionTTLHours)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "could not issue session")
	}
	return c.JSON(http.StatusOK, authResp{Token: token, User: u})
}

// Me echoes back the verified claims of the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  callerID(c),
		"username": c.Get(middleware.CtxUsername),
		"role":     callerRole(c),
	})
}
