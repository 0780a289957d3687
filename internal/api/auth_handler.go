package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/service"
	"github.com/agrinathi/agrinathi-api/internal/service/auth"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/go-playground/validator/v10"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	farmers          store.FarmerStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authConfig       config.AuthConfig
	validator        *validator.Validate
	logger           *slog.Logger
	timeFunc         func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	farmers store.FarmerStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		farmers:          farmers,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		authConfig:       authConfig,
		validator:        validator.New(),
		logger:           logger.With("component", "auth_handler"),
		timeFunc:         time.Now,
	}
}

// WithTimeFunc sets the clock used for token expiry times.
func (h *AuthHandler) WithTimeFunc(fn func() time.Time) *AuthHandler {
	h.timeFunc = fn
	return h
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}
	if req.Password != req.ConfirmPassword {
		HandleAPIError(w, r, domain.ErrPasswordMismatch, "")
		return
	}

	farmer, err := domain.NewFarmer(domain.NewFarmerParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Location:  req.Location,
		FarmSize:  req.FarmSize,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.farmers.Create(r.Context(), farmer); err != nil {
		HandleAPIError(w, r, err, "Registration failed")
		return
	}

	log.Info("farmer registered", "farmer_id", farmer.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		Farmer:  farmer,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	farmer, err := h.farmers.GetByEmail(r.Context(), domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			HandleAPIError(w, r, service.ErrInvalidCredentials, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(farmer.HashedPassword, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("stored password hash rejected", "farmer_id", farmer.ID, "error", err)
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			GetSafeErrorMessage(service.ErrInvalidCredentials), service.ErrInvalidCredentials,
			shared.WithElevatedLogLevel())
		return
	}

	now := h.timeFunc().UTC()
	if err := h.farmers.RecordLogin(r.Context(), farmer.ID, now); err != nil {
		// A missed last-login stamp must not lock the farmer out.
		log.Warn("failed to record login", "farmer_id", farmer.ID, "error", err)
	} else {
		farmer.LastLoginAt = &now
	}

	access, refresh, expiresAt, ok := h.issueTokens(w, r, farmer)
	if !ok {
		return
	}

	log.Info("farmer logged in", "farmer_id", farmer.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Farmer:       farmer,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

// RefreshToken handles POST /api/auth/refresh. The role in the new access
// token is read from the store so role changes take effect on refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	farmer, err := h.farmers.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			HandleAPIError(w, r, auth.ErrInvalidRefreshToken, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	access, refresh, expiresAt, ok := h.issueTokens(w, r, farmer)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

func (h *AuthHandler) issueTokens(
	w http.ResponseWriter,
	r *http.Request,
	farmer *domain.Farmer,
) (string, string, string, bool) {
	access, err := h.jwtService.GenerateToken(r.Context(), farmer.ID, farmer.Role)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return "", "", "", false
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), farmer.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate refresh token")
		return "", "", "", false
	}
	expiresAt := h.timeFunc().UTC().
		Add(time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute).
		Format(time.RFC3339)
	return access, refresh, expiresAt, true
}
