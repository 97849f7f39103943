package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracker-backend/internal/auth"
	"asset-tracker-backend/internal/mw"
	"asset-tracker-backend/internal/store"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login. Unknown usernames and wrong passwords
// get the same answer.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register handles POST /api/auth/register. Admin only.
func (h *Handler) Register(c *gin.Context) {
	identity, _ := mw.IdentityFrom(c)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), identity, req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		case errors.Is(err, auth.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or user"})
		case errors.Is(err, store.ErrConstraintViolation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
		default:
			storeError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}
