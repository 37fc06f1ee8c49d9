package handler

import (
	"context"  // provides context with cancellation for store calls
	"errors"   // errors.Is comparisons against store sentinels
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for store calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/asoline/lawncare-booking/internal/config"     // app configuration
	"github.com/asoline/lawncare-booking/internal/middleware" // principal extraction from context
	"github.com/asoline/lawncare-booking/internal/store"      // entity store
	"github.com/asoline/lawncare-booking/internal/utils"      // helper functions (hashing, token issuing)
	"github.com/asoline/lawncare-booking/internal/validate"   // request payload validation
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Store store.Store
}

func NewAuthHandler(cfg config.Config, s store.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Store: s}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

// Register creates a user and returns a token immediately. Accounts
// created through this endpoint are never admins; the only admin is the
// one seeded at startup.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Credentials(req.Username, req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "create user failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.CreateUser(ctx, store.NewUser{Username: req.Username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return respondError(c, http.StatusConflict, "username already exists")
		}
		return respondError(c, http.StatusInternalServerError, "create user failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.IsAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "issue token failed")
	}

	return respondData(c, http.StatusCreated, authResp{
		User:   userPart{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Credentials(req.Username, req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.UserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusUnauthorized, "invalid credentials")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.IsAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "issue token failed")
	}

	return respondData(c, http.StatusOK, authResp{
		User:   userPart{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.User(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusUnauthorized, "unauthorized")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, userPart{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
}
