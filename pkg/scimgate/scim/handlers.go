package scim

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler exposes the provisioning engine over the SCIM v2 HTTP surface.
type UserHandler struct {
	engine *Engine
}

// NewUserHandler creates a handler backed by the given database connection.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{engine: NewEngine(NewGormUserStore(db), nil)}
}

// CreateUser creates or reactivates a user (POST /scim/v2/Users).
// Returns 201 only for genuinely new records; a reactivation of an
// existing userName answers 200.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var in UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  err.Error(),
			Status:  "400",
		})
		return
	}

	user, created, err := h.engine.CreateOrReactivate(&in)
	if err != nil {
		h.writeSaveError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, UserResourceFrom(user))
}

// UpdateUser replaces a user (PUT /scim/v2/Users/:id). The record is
// resolved by the body's userName, not the path id; the path id is a
// routing hint only.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var in UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  err.Error(),
			Status:  "400",
		})
		return
	}

	user, _, err := h.engine.UpdateByID(c.Param("id"), &in)
	if err != nil {
		h.writeSaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResourceFrom(user))
}

// ListUsers returns active users, optionally narrowed by a filter
// expression (GET /scim/v2/Users).
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.engine.Query(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  "Failed to query users",
			Status:  "500",
		})
		return
	}

	c.JSON(http.StatusOK, NewListResponse(users))
}

// GetUser returns a single user by scim_id (GET /scim/v2/Users/:id).
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.engine.GetByScimID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  "Failed to look up user",
			Status:  "500",
		})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  "User not found",
			Status:  "404",
		})
		return
	}

	c.JSON(http.StatusOK, UserResourceFrom(user))
}

// PatchUser applies patch operations to a user (PATCH /scim/v2/Users/:id).
// Deprovisioning arrives here as a replace of active=false.
func (h *UserHandler) PatchUser(c *gin.Context) {
	var patch PatchOp
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  err.Error(),
			Status:  "400",
		})
		return
	}

	user, err := h.engine.Patch(c.Param("id"), patch.Operations)
	if err != nil {
		h.writeSaveError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  "User not found",
			Status:  "404",
		})
		return
	}

	c.JSON(http.StatusOK, UserResourceFrom(user))
}

func (h *UserHandler) writeSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNameRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Schemas:  []string{SchemaError},
			Detail:   err.Error(),
			Status:   "400",
			ScimType: "invalidValue",
		})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, ErrorResponse{
			Schemas:  []string{SchemaError},
			Detail:   "User conflicts with an existing record",
			Status:   "409",
			ScimType: "uniqueness",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Schemas: []string{SchemaError},
			Detail:  "Failed to save user",
			Status:  "500",
		})
	}
}

// RegisterRoutes registers SCIM User routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/Users", h.ListUsers)
	rg.GET("/Users/:id", h.GetUser)
	rg.POST("/Users", h.CreateUser)
	rg.PUT("/Users/:id", h.UpdateUser)
	rg.PATCH("/Users/:id", h.PatchUser)
}
