package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webcore/auth-system/internal/api/metrics"
	"github.com/webcore/auth-system/internal/core/domain"
	"github.com/webcore/auth-system/internal/core/ports"
	"github.com/webcore/auth-system/internal/core/service"
)

type AuthHandler struct {
	auth       ports.AuthService
	cookieName string
	sessionTTL time.Duration

	// accessSecret enables access tokens in the login response when the
	// bearer strategy is configured; empty disables them.
	accessSecret []byte
}

func NewAuthHandler(auth ports.AuthService, cookieName string, sessionTTL time.Duration, accessSecret []byte) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		cookieName:   cookieName,
		sessionTTL:   sessionTTL,
		accessSecret: accessSecret,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type issueResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrAlreadyRegistered:
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "email already registered"})
		case domain.ErrInvalidCredentials:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, map[string]string{
		"email":   user.Email,
		"message": "user created",
	})
}

// Login verifies credentials, creates a session, and sets the session cookie.
// Bad email and bad password both produce the same 401 so callers cannot
// probe for registered addresses.
//
// @Summary      Log in and start a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/sessions [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ok, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	token, err := h.auth.CreateSession(c.Request().Context(), req.Email)
	if err != nil {
		if err == domain.ErrUnknownUser {
			// The account vanished between verify and session creation;
			// keep the uniform failure shape.
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	c.SetCookie(h.sessionCookie(token, int(h.sessionTTL.Seconds())))

	resp := map[string]string{
		"email":   req.Email,
		"message": "logged in",
	}
	if len(h.accessSecret) > 0 {
		user, err := h.auth.ResolveSession(c.Request().Context(), token)
		if err != nil {
			return err
		}
		if user != nil {
			access, err := service.IssueAccessToken(user.ID, h.accessSecret, h.sessionTTL)
			if err != nil {
				return err
			}
			resp["token"] = access
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, resp)
}

// Logout destroys the session referenced by the cookie and clears the cookie.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/sessions [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	user := ctxUser(c)
	if user == nil {
		cookie, err := c.Cookie(h.cookieName)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
		user, err = h.auth.ResolveSession(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
	}

	if err := h.auth.DestroySession(c.Request().Context(), user.ID); err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie("", -1))
	metrics.SessionsDestroyedTotal.Inc()
	return c.JSON(http.StatusOK, map[string]string{})
}

// Profile returns the authenticated user's email.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user := ctxUser(c)
	if user == nil {
		cookie, err := c.Cookie(h.cookieName)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
		user, err = h.auth.ResolveSession(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"email": user.Email})
}

// IssueResetToken starts the password-reset flow for an email.
//
// @Summary      Request a password-reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      issueResetRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/reset_password [post]
func (h *AuthHandler) IssueResetToken(c echo.Context) error {
	var req issueResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, err := h.auth.IssueResetToken(c.Request().Context(), req.Email)
	if err != nil {
		if err == domain.ErrUnknownUser {
			metrics.PasswordResetsTotal.WithLabelValues("issue", "rejected").Inc()
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("issue", "success").Inc()
	return c.JSON(http.StatusOK, map[string]string{
		"email":       req.Email,
		"reset_token": token,
	})
}

// UpdatePassword completes the password-reset flow.
//
// @Summary      Update the password with a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updatePasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/reset_password [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.auth.UpdatePassword(c.Request().Context(), req.ResetToken, req.NewPassword); err != nil {
		if err == domain.ErrInvalidToken {
			metrics.PasswordResetsTotal.WithLabelValues("update", "rejected").Inc()
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("update", "success").Inc()
	return c.JSON(http.StatusOK, map[string]string{
		"email":   req.Email,
		"message": "Password updated",
	})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
