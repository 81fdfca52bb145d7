package handler

import (
	"net/http"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
	"pizzeria-service/pkg/jwtutil"
	"pizzeria-service/pkg/logger"
	"pizzeria-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler implements registration, login and profile management.
type AuthHandler struct {
	store store.Store
	menu  *menu.Service
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(st store.Store, menuService *menu.Service) *AuthHandler {
	return &AuthHandler{store: st, menu: menuService}
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register creates a profile for a new identity and bootstraps its menu
// from the master template.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse register request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("missing_credentials")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx := c.Request().Context()
	if _, err := h.store.GetUserByEmail(ctx, req.Email); err == nil {
		log.Warn("Account already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_taken")
		return c.JSON(http.StatusConflict, echo.Map{"error": "an account with this email already exists"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	user := model.User{
		Email:         req.Email,
		Password:      string(hashed),
		Role:          model.RoleClient,
		Roles:         []model.UserRole{model.RoleAdmin, model.RolePizzeria, model.RoleClient},
		SelectedSpace: model.RoleClient,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Address:       req.Address,
	}
	if err := h.store.CreateUser(ctx, &user); err != nil {
		return respondError(c, log, err)
	}

	// Bootstrap the tenant's menu from the master template. A propagation
	// failure is logged but does not block the registration.
	tenant := h.menu.Resolver().TenantFor(&user)
	if _, err := h.menu.PropagateIfEmpty(ctx, tenant); err != nil {
		log.Error("Template propagation failed",
			zap.String("tenant", tenant),
			zap.Error(err))
	} else {
		prometheus.PropagationCounter.Inc()
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, string(user.Role), string(user.SelectedSpace))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// LoginRequest is the payload for sign-in.
type LoginRequest struct {
	Email         string         `json:"email"`
	Password      string         `json:"password"`
	SelectedSpace model.UserRole `json:"selected_space,omitempty"`
}

// Login verifies credentials, optionally switches the selected space and
// re-runs template propagation for tenants that still have an empty menu.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if req.SelectedSpace != "" {
		if !user.HasRole(req.SelectedSpace) {
			log.Warn("Selected space not granted",
				zap.String("email", req.Email),
				zap.String("selected_space", string(req.SelectedSpace)))
			prometheus.RecordAuthError("space_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "selected space is not available for this account"})
		}
		user.SelectedSpace = req.SelectedSpace
		if err := h.store.UpdateUser(ctx, user); err != nil {
			return respondError(c, log, err)
		}
	}

	tenant := h.menu.Resolver().TenantFor(user)
	if _, err := h.menu.PropagateIfEmpty(ctx, tenant); err != nil {
		log.Error("Template propagation failed",
			zap.String("tenant", tenant),
			zap.Error(err))
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, string(user.Role), string(user.SelectedSpace))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("selected_space", string(user.SelectedSpace)))
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// GetProfile returns the authenticated user's profile with its tenant key.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": sess.User, "tenant": sess.Tenant})
}

// ProfileUpdateRequest is the payload for profile edits.
type ProfileUpdateRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateProfile updates the contact fields of the authenticated profile.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	sess.User.FullName = req.FullName
	sess.User.Phone = req.Phone
	sess.User.Address = req.Address
	if err := h.store.UpdateUser(c.Request().Context(), sess.User); err != nil {
		return respondError(c, log, err)
	}

	log.Info("Profile updated", zap.String("user_id", sess.User.ID))
	return c.JSON(http.StatusOK, sess.User)
}

// SelectSpaceRequest switches the space the account acts in.
type SelectSpaceRequest struct {
	SelectedSpace model.UserRole `json:"selected_space"`
}

// SelectSpace updates the selected space and returns a token carrying it.
func (h *AuthHandler) SelectSpace(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var req SelectSpaceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if !sess.User.HasRole(req.SelectedSpace) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "selected space is not available for this account"})
	}

	sess.User.SelectedSpace = req.SelectedSpace
	if err := h.store.UpdateUser(c.Request().Context(), sess.User); err != nil {
		return respondError(c, log, err)
	}

	token, err := jwtutil.GenerateToken(sess.User.ID, sess.User.Email, string(sess.User.Role), string(sess.User.SelectedSpace))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Space selected",
		zap.String("user_id", sess.User.ID),
		zap.String("selected_space", string(req.SelectedSpace)))
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": sess.User})
}
