package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *models.User) gin.H {
	return gin.H{"id": u.ID, "username": u.Username, "email": u.Email}
}

// Register creates a new user account
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user":    userJSON(user),
	})
}

// Login authenticates a user and returns a JWT
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userJSON(user),
	})
}

// GetProfile returns the authenticated user's profile
func (h *Handlers) GetProfile(c *gin.Context) {
	user, err := h.Auth.Profile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
