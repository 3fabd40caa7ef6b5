package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/01moynul/lumino-partner-portal/internal/store"
	"github.com/gin-gonic/gin"
)

// --- Staff Login ---

// LoginInput defines the JSON data expected for a login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Email and password are required")
		return
	}

	// 2. --- Find Staff User By Email ---
	user, err := h.Staff.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(input.Email)))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusUnauthorized, nil, "Invalid credentials")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Database error")
		return
	}

	// 3. --- Check Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to check password")
		return
	}
	if !match {
		respondError(c, http.StatusUnauthorized, nil, "Invalid credentials")
		return
	}

	// 4. --- Generate JWT ---
	token, err := h.Tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
