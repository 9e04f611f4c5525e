package httpHandler

import (
	"net/http"

	"clairity-server/usecases"

	"github.com/gin-gonic/gin"
)

// UserHandler is the admin-facing management surface.
type UserHandler struct {
	accounts *usecases.AccountUseCase
}

func NewUserHandler(accounts *usecases.AccountUseCase) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GetAllUsers handles GET /api/v1/users?search=
// An optional search term filters by name or email, case-insensitively.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.accounts.List(c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  users,
		"count": len(users),
	})
}

// CreateUser handles POST /api/v1/users. The created account still goes
// through email verification like a self-signup.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.accounts.Register(req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Verification email sent.",
		"data":    user,
	})
}

// UpdateUser handles PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req usecases.AdminUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.accounts.Update(c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.accounts.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ActivateUser handles PUT /api/v1/users/:id/activate
func (h *UserHandler) ActivateUser(c *gin.Context) {
	if err := h.accounts.Activate(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User activated successfully"})
}

// DeactivateUser handles PUT /api/v1/users/:id/deactivate
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	if err := h.accounts.Deactivate(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}

type toggleAlertsRequest struct {
	Alerts *bool `json:"alerts" binding:"required"`
}

// ToggleAlerts handles PUT /api/v1/users/:id/toggle-alerts
func (h *UserHandler) ToggleAlerts(c *gin.Context) {
	var req toggleAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.accounts.ToggleAlerts(c.Param("id"), *req.Alerts); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alert subscription updated"})
}
