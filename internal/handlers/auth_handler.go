package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/middleware"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/utils"
	"github.com/harentsoaR/folio-api/internal/validation"
	"go.uber.org/zap"
)

// RegisterUser creates an account. Role defaults to user.
func (h *Handler) RegisterUser(c *gin.Context) {
	req := middleware.Body[validation.RegisterRequest](c)

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin && !h.opts.AllowAdminRegistration {
		response.ClientError(c, "Admin accounts cannot be self-registered")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password, h.opts.BcryptCost)
	if err != nil {
		h.serverError(c, "Failed to hash password", err)
		return
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			response.ClientError(c, "An account with this email already exists")
			return
		}
		h.serverError(c, "Server error during registration", err)
		return
	}
	h.Log.Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(role)))

	token, err := h.Tokens.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		h.serverError(c, "Could not generate token", err)
		return
	}
	response.Created(c, "User registered successfully", gin.H{"token": token, "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	req := middleware.Body[validation.LoginRequest](c)

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		response.Unauthenticated(c, "Invalid credentials")
		return
	}
	if err != nil {
		h.serverError(c, "Server error during login", err)
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		response.Unauthenticated(c, "Invalid credentials")
		return
	}
	if user.IsBlocked {
		response.Forbidden(c, "Your account has been blocked")
		return
	}

	token, err := h.Tokens.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		h.serverError(c, "Could not generate token", err)
		return
	}

	// Don't send password back
	user.Password = ""
	response.Success(c, "Login successful", gin.H{"token": token, "user": user})
}

// GetCurrentUser returns the authenticated account.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthenticated(c, "User not authenticated")
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), id.ID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, "Server error while fetching user", err)
		return
	}
	response.Success(c, "User retrieved successfully", gin.H{"user": user})
}

// UpdateCurrentUser lets the caller change their own display name.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	req := middleware.Body[validation.UpdateAccountRequest](c)
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthenticated(c, "User not authenticated")
		return
	}

	user, err := h.Users.UpdateFullName(c.Request.Context(), id.ID, req.FullName)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, "Failed to update user profile", err)
		return
	}
	h.Log.Info("account updated", zap.String("user_id", user.ID.Hex()))
	response.Success(c, "Profile updated successfully", gin.H{"user": user})
}
