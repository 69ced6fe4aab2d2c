package scim

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tkoster/scimgate/pkg/scimgate/models"
	"gorm.io/gorm"
)

// GenerateSCIMToken creates a new SCIM bearer token. The plain token is
// returned once; only its hash is stored.
func GenerateSCIMToken(db *gorm.DB, description string) (string, *models.SCIMToken, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	hash := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(hash[:])

	scimToken := &models.SCIMToken{
		TokenHash:   tokenHash,
		TokenPrefix: token[:8],
		Description: description,
	}

	if err := db.Create(scimToken).Error; err != nil {
		return "", nil, err
	}

	return token, scimToken, nil
}

// ValidateSCIMToken validates a SCIM bearer token
func ValidateSCIMToken(db *gorm.DB, token string) (*models.SCIMToken, error) {
	hash := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(hash[:])

	var scimToken models.SCIMToken
	if err := db.Where("token_hash = ?", tokenHash).First(&scimToken).Error; err != nil {
		return nil, err
	}

	// Update last used (fire and forget)
	go func() {
		now := time.Now()
		db.Model(&scimToken).Update("last_used_at", &now)
	}()

	return &scimToken, nil
}

// SCIMAuthMiddleware authenticates SCIM requests using bearer tokens
func SCIMAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Schemas: []string{SchemaError},
				Detail:  "Authorization header required",
				Status:  "401",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Schemas: []string{SchemaError},
				Detail:  "Invalid authorization header format",
				Status:  "401",
			})
			c.Abort()
			return
		}

		if _, err := ValidateSCIMToken(db, parts[1]); err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Schemas: []string{SchemaError},
				Detail:  "Invalid token",
				Status:  "401",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// TokenResponse represents a SCIM token in API responses
type TokenResponse struct {
	ID          uint       `json:"id"`
	TokenPrefix string     `json:"token_prefix"`
	Description string     `json:"description"`
	LastUsedAt  *time.Time `json:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateTokenResponse includes the full token (only shown on creation)
type CreateTokenResponse struct {
	ID          uint      `json:"id"`
	Token       string    `json:"token"`
	TokenPrefix string    `json:"token_prefix"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTokenRequest represents a request to create a SCIM token
type CreateTokenRequest struct {
	Description string `json:"description"`
}

// TokenHandler handles SCIM token management (admin only)
type TokenHandler struct {
	db *gorm.DB
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(db *gorm.DB) *TokenHandler {
	return &TokenHandler{db: db}
}

// ListTokens returns all SCIM tokens
func (h *TokenHandler) ListTokens(c *gin.Context) {
	var tokens []models.SCIMToken
	h.db.Find(&tokens)

	responses := make([]TokenResponse, len(tokens))
	for i, t := range tokens {
		responses[i] = TokenResponse{
			ID:          t.ID,
			TokenPrefix: t.TokenPrefix,
			Description: t.Description,
			LastUsedAt:  t.LastUsedAt,
			CreatedAt:   t.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// CreateToken creates a new SCIM token
func (h *TokenHandler) CreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, scimToken, err := GenerateSCIMToken(h.db, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, CreateTokenResponse{
		ID:          scimToken.ID,
		Token:       token,
		TokenPrefix: scimToken.TokenPrefix,
		Description: scimToken.Description,
		CreatedAt:   scimToken.CreatedAt,
	})
}

// DeleteToken deletes a SCIM token
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	id := c.Param("id")

	var token models.SCIMToken
	if err := h.db.First(&token, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}

	h.db.Delete(&token)
	c.JSON(http.StatusOK, gin.H{"message": "Token deleted"})
}

// RegisterAdminRoutes registers SCIM token admin routes
func (h *TokenHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/scim-tokens", h.ListTokens)
	rg.POST("/scim-tokens", h.CreateToken)
	rg.DELETE("/scim-tokens/:id", h.DeleteToken)
}
