package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkoster/scimgate/pkg/scimgate/models"
	"gorm.io/gorm"
)

// Handler handles authentication requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token    string           `json:"token"`
	Operator OperatorResponse `json:"operator"`
}

// OperatorResponse represents operator data in responses
type OperatorResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login authenticates an operator with email and password and issues a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var operator models.Operator
	if err := h.db.Where("email = ?", req.Email).First(&operator).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !CheckPassword(req.Password, operator.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := GenerateToken(operator.ID, operator.Email, string(operator.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		Operator: OperatorResponse{
			ID:    operator.ID,
			Email: operator.Email,
			Name:  operator.Name,
			Role:  string(operator.Role),
		},
	})
}

// Me returns the current authenticated operator
func (h *Handler) Me(c *gin.Context) {
	operatorID, exists := GetOperatorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var operator models.Operator
	if err := h.db.First(&operator, operatorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
		return
	}

	c.JSON(http.StatusOK, OperatorResponse{
		ID:    operator.ID,
		Email: operator.Email,
		Name:  operator.Name,
		Role:  string(operator.Role),
	})
}

// RegisterRoutes registers public auth routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}

// RegisterProtectedRoutes registers routes requiring authentication
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}
