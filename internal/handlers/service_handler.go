package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/media"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

// ImageStore keeps uploaded service images.
type ImageStore interface {
	Enabled() bool
	PutServiceImage(ctx context.Context, serviceID string, data []byte) (string, error)
}

type ServiceHandler struct {
	db     *gorm.DB
	images ImageStore
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewServiceHandler(db *gorm.DB, images ImageStore, audit *audit.Dispatcher, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		db:     db,
		images: images,
		audit:  audit,
		logger: logging.OrNop(logger),
	}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Description     string `json:"description" binding:"max=1000"`
	Duration        string `json:"duration" binding:"max=50"`
	DurationMinutes int    `json:"duration_minutes" binding:"min=0"`
	PriceCents      int64  `json:"price_cents" binding:"min=0"`
	Currency        string `json:"currency" binding:"omitempty,len=3"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	Duration        *string `json:"duration,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	PriceCents      *int64  `json:"price_cents,omitempty"`
	Currency        *string `json:"currency,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// --------- Public ---------

func (h *ServiceHandler) ListPublic(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("active = ?", true)

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		writeError(c, err, "failed_to_list_services")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "service_not_found")
	if !ok {
		return
	}

	svc, err := h.load(c, id)
	if err != nil {
		writeError(c, err, "failed_to_get_service")
		return
	}
	if !svc.Active {
		writeError(c, httperr.ErrBusiness("service_not_found"), "failed_to_get_service")
		return
	}

	c.JSON(http.StatusOK, svc)
}

// --------- Admin ---------

func (h *ServiceHandler) ListAll(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Order("name ASC").
		Find(&services).Error; err != nil {

		writeError(c, err, "failed_to_list_services")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	svc := models.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		Duration:        strings.TrimSpace(req.Duration),
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Currency:        strings.ToLower(req.Currency),
		Active:          true,
	}
	if svc.DurationMinutes == 0 {
		svc.DurationMinutes = timeutil.ParseDurationToMinutes(svc.Duration)
	}
	if svc.Currency == "" {
		svc.Currency = "usd"
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		writeError(c, err, "failed_to_create_service")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "service_created",
		Entity:   "service",
		EntityID: svc.ID.String(),
	})

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "service_not_found")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	svc, err := h.load(c, id)
	if err != nil {
		writeError(c, err, "failed_to_get_service")
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = strings.TrimSpace(*req.Description)
	}
	if req.Duration != nil {
		svc.Duration = strings.TrimSpace(*req.Duration)
		// re-derive unless minutes are given explicitly below
		svc.DurationMinutes = timeutil.ParseDurationToMinutes(svc.Duration)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			writeError(c, httperr.ErrBusiness("invalid_duration"), "failed_to_update_service")
			return
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
			return
		}
		svc.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		svc.Currency = strings.ToLower(strings.TrimSpace(*req.Currency))
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if svc.Name == "" {
		httperr.BadRequest(c, "invalid_request", "Name is required.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(svc).Error; err != nil {
		writeError(c, err, "failed_to_update_service")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "service_updated",
		Entity:   "service",
		EntityID: svc.ID.String(),
	})

	c.JSON(http.StatusOK, svc)
}

// UploadImage takes multipart field "image", converts it to webp and
// stores it.
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	id, ok := uuidParam(c, "service_not_found")
	if !ok {
		return
	}

	if h.images == nil || !h.images.Enabled() {
		httperr.Unavailable(c, "image_storage_disabled", "Image storage is not configured.")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes)

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Multipart field \"image\" is required.")
		return
	}

	svc, err := h.load(c, id)
	if err != nil {
		writeError(c, err, "failed_to_get_service")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err, "failed_to_read_image")
		return
	}
	defer f.Close()

	data, err := media.ToWebP(f, media.DefaultMaxWidth, media.DefaultQuality)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			httperr.BadRequest(c, "unsupported_image", "Upload a PNG, JPEG or WebP image.")
			return
		}
		writeError(c, err, "failed_to_convert_image")
		return
	}

	url, err := h.images.PutServiceImage(c.Request.Context(), svc.ID.String(), data)
	if err != nil {
		h.logger.Error("store service image", zap.String("service_id", svc.ID.String()), zap.Error(err))
		writeError(c, err, "failed_to_store_image")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(svc).
		Update("image_url", url).Error; err != nil {

		writeError(c, err, "failed_to_update_service")
		return
	}
	svc.ImageURL = url

	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) load(c *gin.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).First(&svc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
