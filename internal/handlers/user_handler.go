package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, audit *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: audit}
}

type UpdateMeRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,max=20"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin customer"`
}

// ======================================================
// ME
// ======================================================

// GetMe mirrors the token identity into the local profile. Email and name
// follow the token; role and phone are owned locally.
func (h *UserHandler) GetMe(c *gin.Context) {
	user := models.User{
		ID:    c.GetString(middleware.ContextUserID),
		Email: c.GetString(middleware.ContextUserEmail),
		Name:  c.GetString(middleware.ContextUserName),
		Role:  c.GetString(middleware.ContextUserRole),
	}

	db := h.db.WithContext(c.Request.Context())

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(&user).Error; err != nil {
		writeError(c, err, "failed_to_sync_profile")
		return
	}

	if err := db.First(&user, "id = ?", user.ID).Error; err != nil {
		writeError(c, err, "user_not_found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if len(updates) == 0 {
		httperr.BadRequest(c, "invalid_request", "Nothing to update.")
		return
	}

	id := c.GetString(middleware.ContextUserID)
	db := h.db.WithContext(c.Request.Context())

	res := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		writeError(c, res.Error, "failed_to_update_profile")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "Profile not found. Call GET /api/me first.")
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		writeError(c, err, "user_not_found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ======================================================
// ADMIN
// ======================================================

func (h *UserHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}
	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		writeError(c, err, "failed_to_list_users")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_role", "Role must be admin or customer.")
		return
	}

	id := c.Param("id")
	actor := c.GetString(middleware.ContextUserID)
	if id == actor && req.Role != middleware.RoleAdmin {
		httperr.BadRequest(c, "cannot_demote_self", "Admins cannot remove their own admin role.")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	res := db.Model(&models.User{}).Where("id = ?", id).Update("role", req.Role)
	if res.Error != nil {
		writeError(c, res.Error, "failed_to_update_user")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  actor,
		Action:   "user_role_changed",
		Entity:   "user",
		EntityID: id,
		Metadata: map[string]any{"role": req.Role},
	})

	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

// RoleOf is the stored role lookup used by middleware.ProfileRole.
func (h *UserHandler) RoleOf(ctx context.Context, userID string) (string, error) {
	var user models.User
	err := h.db.WithContext(ctx).Select("role").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
