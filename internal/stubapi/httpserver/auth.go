package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/auth"
	"github.com/imaxretail/storefront/internal/stubapi/events"
	"github.com/imaxretail/storefront/internal/stubapi/models"
	"github.com/imaxretail/storefront/pkg/hash"
	"github.com/imaxretail/storefront/pkg/logging"
)

type AuthHTTP struct {
	DB       *gorm.DB
	Secret   []byte
	Producer *events.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email and password are required")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		l.Warn("register_error", "status", 409, "reason", "email taken")
		return fail(c, http.StatusConflict, "email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         "customer",
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	cookie, err := auth.NewSessionCookie(h.Secret, user.ID.String(), user.Role)
	if err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	c.SetCookie(cookie)

	h.publish(c, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("register_successful", "user_id", user.ID)
	return ok(c, http.StatusCreated, echo.Map{"user": userView(&user)})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		l.Warn("login_failed", "status", 401)
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401)
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}

	cookie, err := auth.NewSessionCookie(h.Secret, user.ID.String(), user.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	c.SetCookie(cookie)

	h.publish(c, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})

	l.Info("login_successful", "user_id", user.ID)
	return ok(c, http.StatusOK, echo.Map{"user": userView(&user)})
}

// Me reports the session's user. The RequireSession middleware has already
// rejected anonymous callers.
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		c.SetCookie(auth.DeleteSessionCookie())
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	return ok(c, http.StatusOK, echo.Map{"user": userView(&user)})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(auth.DeleteSessionCookie())

	l.Info("logout_successful")
	return ok(c, http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) publish(c echo.Context, topic, key string, event map[string]any) {
	ctx := c.Request().Context()
	if err := h.Producer.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "error", err)
	}
}
