package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/config"
	"github.com/kmadriaga/resort-booking-api/internal/mail"
	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
	"github.com/kmadriaga/resort-booking-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Mailer *mail.Mailer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, m *mail.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Mailer: m}
}

// ----- DTOs -----

type registerReq struct {
	Name                 string  `json:"name" validate:"required,max=255"`
	Email                string  `json:"email" validate:"required,email"`
	Phone                *string `json:"phone"`
	Password             string  `json:"password" validate:"required,min=8"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required,eqfield=Password"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
	Verified bool    `json:"verified"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, Verified: u.Verified()}
}

func (h *AuthHandler) verifyLink(rawToken string) string {
	return fmt.Sprintf("%s/api/email/verify?token=%s", strings.TrimRight(h.Cfg.AppURL(), "/"), rawToken)
}

// Register creates an account with role "user" and emails a verification
// link.  User insert and mail dispatch share one transaction: when the SMTP
// relay rejects our credentials the account is rolled back and the client
// gets a 500 explaining that registration is unavailable.  Other delivery
// problems keep the account and are only logged.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	rawVerify, err := utils.NewVerifyToken()
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "token generation failed")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	tx, err := h.Users.DB.BeginTx(ctx, nil)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "create user failed")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	uid, err := h.Users.CreateTx(ctx, tx, req.Name, req.Email, req.Phone,
		req.Password, model.RoleUser, utils.HashToken(rawVerify), h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"errors": map[string]string{"email": "email has already been taken"},
			})
		}
		return jsonError(c, http.StatusInternalServerError, "create user failed")
	}

	if err := h.Mailer.SendVerification(req.Email, req.Name, h.verifyLink(rawVerify)); err != nil {
		if mail.IsAuthError(err) {
			return jsonError(c, http.StatusInternalServerError,
				"registration is temporarily unavailable: verification email could not be sent")
		}
		c.Logger().Warnf("verification mail to %s failed: %v", req.Email, err)
	}

	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "create user failed")
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered, please verify your email",
		"user": userPart{
			ID: uid, Name: req.Name, Email: req.Email, Phone: req.Phone, Role: model.RoleUser,
		},
	})
}

// VerifyEmail consumes the token from the emailed link and redirects the
// browser to the front end with the outcome in the query string.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("token"))
	front := strings.TrimRight(h.Cfg.FrontendURL, "/")
	if raw == "" {
		return c.Redirect(http.StatusFound, front+"/login?verified=invalid")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByVerifyHash(ctx, utils.HashToken(raw))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Redirect(http.StatusFound, front+"/login?verified=invalid")
		}
		return jsonError(c, http.StatusInternalServerError, "verification failed")
	}
	if u.Verified() {
		return c.Redirect(http.StatusFound, front+"/login?verified=already")
	}
	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		return jsonError(c, http.StatusInternalServerError, "verification failed")
	}
	return c.Redirect(http.StatusFound, front+"/login?verified=true")
}

// ResendVerification issues a fresh token for the authenticated user and
// sends the link again.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, authUserID(c))
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "load user failed")
	}
	if u.Verified() {
		return c.JSON(http.StatusOK, echo.Map{"message": "email already verified"})
	}

	raw, err := utils.NewVerifyToken()
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "token generation failed")
	}
	if err := h.Users.SetVerifyToken(ctx, u.ID, utils.HashToken(raw)); err != nil {
		return jsonError(c, http.StatusInternalServerError, "resend failed")
	}
	if err := h.Mailer.SendVerification(u.Email, u.Name, h.verifyLink(raw)); err != nil {
		return jsonError(c, http.StatusInternalServerError, "verification email could not be sent")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verification email sent"})
}

// Login verifies credentials and issues an access/refresh token pair.  An
// unverified email is a distinct 403 so the front end can offer a resend.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"errors": map[string]string{"email": "the provided credentials are incorrect"},
			})
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"email": "the provided credentials are incorrect"},
		})
	}
	if !u.Verified() {
		return jsonError(c, http.StatusForbidden, "email not verified")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue access failed")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue refresh failed")
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashToken(refresh.Raw), refresh.Exp); err != nil {
		return jsonError(c, http.StatusInternalServerError, "save refresh failed")
	}

	return c.JSON(http.StatusOK, authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh consumes a refresh token and issues a new pair.  Rotation is
// atomic in the repository, so a stolen token races its owner at most once.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonError(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashToken(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := dbCtx(c)
	defer cancel()

	userID, err := h.Tokens.Rotate(ctx, hash)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid refresh")
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "load user failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue access failed")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue refresh failed")
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashToken(refresh.Raw), refresh.Exp); err != nil {
		return jsonError(c, http.StatusInternalServerError, "save refresh failed")
	}

	return c.JSON(http.StatusOK, authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Logout revokes all refresh tokens for the current user.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	uid := authUserID(c)
	if uid == 0 {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return jsonError(c, http.StatusInternalServerError, "logout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, authUserID(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}
		return jsonError(c, http.StatusInternalServerError, "load user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}
