package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/shenikar/civicflow/internal/chatbot"
	"github.com/shenikar/civicflow/internal/config"
	"github.com/shenikar/civicflow/internal/models"
	"github.com/shenikar/civicflow/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	msgComplaintSubmitted = "Complaint submitted successfully!"
	msgComplaintNotFound  = "Complaint not found"
)

type Handler struct {
	complaintService service.ComplaintService
	bot              *chatbot.Bot
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
	upgrader         websocket.Upgrader
}

func NewHandler(complaintService service.ComplaintService, bot *chatbot.Bot, logger *logrus.Logger, cfg *config.Config) *Handler {
	h := &Handler{
		complaintService: complaintService,
		bot:              bot,
		logger:           logger,
		validate:         newValidator(),
		cfg:              cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return originAllowed(cfg.AllowedOrigins, r.Header.Get("Origin")) },
	}
	return h
}

// newValidator создает валидатор с правилом complaint_status для закрытого списка статусов
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("complaint_status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	return v
}

// @Summary Submit a complaint
// @Description Submit a new civic complaint. Accepts JSON or a multipart form with an optional "image" file.
// @Tags Complaints
// @Accept json,mpfd
// @Produce json
// @Param complaint body CreateComplaintRequest true "Complaint submission"
// @Param image formData file false "Photo of the issue"
// @Success 201 {object} CreateComplaintResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /complaints [post]
func (h *Handler) createComplaint(c *gin.Context) {
	var input CreateComplaintRequest
	log := h.logger.WithField("method", "createComplaint")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes()+formOverheadBytes)

	if err := c.ShouldBind(&input); err != nil {
		log.WithError(err).Warn("Failed to bind request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL, err := h.saveUpload(c)
	if err != nil {
		if errors.Is(err, errInvalidUpload) {
			log.WithError(err).Warn("Rejected uploaded image")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to store uploaded image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	model := DTOToComplaintModel(input)
	if imageURL != "" {
		model.ImageURL = imageURL
	}

	if err := h.complaintService.CreateComplaint(c.Request.Context(), model); err != nil {
		h.removeUpload(imageURL)
		if errors.Is(err, service.ErrValidation) {
			log.WithError(err).Warn("Service rejected complaint")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to create complaint in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit complaint"})
		return
	}

	c.JSON(http.StatusCreated, CreateComplaintResponse{
		Message:   msgComplaintSubmitted,
		Complaint: ModelToComplaintResponse(model),
	})
}

// @Summary List complaints
// @Description Get every complaint regardless of status
// @Tags Complaints
// @Produce json
// @Success 200 {array} ComplaintResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /complaints [get]
func (h *Handler) listComplaints(c *gin.Context) {
	log := h.logger.WithField("method", "listComplaints")

	complaints, err := h.complaintService.ListComplaints(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list complaints from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, ModelsToComplaintResponses(complaints))
}

// @Summary Get complaint by ID
// @Description Get a single complaint by its ID
// @Tags Complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} ComplaintResponse
// @Failure 400 {object} map[string]string "Invalid complaint ID"
// @Failure 404 {object} map[string]string "Complaint not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /complaints/{id} [get]
func (h *Handler) getComplaint(c *gin.Context) {
	id, ok := parseComplaintID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getComplaint").WithField("id", id)

	complaint, err := h.complaintService.GetComplaint(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			log.WithError(err).Warn("Complaint not found")
			c.JSON(http.StatusNotFound, gin.H{"error": msgComplaintNotFound})
			return
		}
		log.WithError(err).Error("Failed to get complaint from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaint"})
		return
	}
	c.JSON(http.StatusOK, ModelToComplaintResponse(complaint))
}

// @Summary Update complaint status
// @Description Change the status of a complaint and notify its submitter by email
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} UpdateStatusResponse
// @Failure 400 {object} map[string]string "Invalid complaint ID or status"
// @Failure 404 {object} map[string]string "Complaint not found"
// @Failure 500 {object} map[string]string "Status saved but notification failed, or internal error"
// @Router /complaints/{id} [put]
func (h *Handler) updateComplaintStatus(c *gin.Context) {
	id, ok := parseComplaintID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateComplaintStatus").WithField("id", id)

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.complaintService.UpdateStatus(c.Request.Context(), id, models.Status(input.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			log.WithError(err).Warn("Service rejected status")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			log.WithError(err).Warn("Complaint not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": msgComplaintNotFound})
		case errors.Is(err, service.ErrNotify) && result != nil:
			// статус уже сохранен, сообщаем об этом вместе с ошибкой
			log.WithError(err).Error("Status saved but notification failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Complaint status updated but email notification failed",
				"complaint": ModelToComplaintResponse(result.Complaint),
			})
		default:
			log.WithError(err).Error("Failed to update complaint in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint or send email"})
		}
		return
	}

	c.JSON(http.StatusOK, UpdateStatusResponse{
		Message:      updateMessage(result.Notification),
		Complaint:    ModelToComplaintResponse(result.Complaint),
		Notification: string(result.Notification),
	})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseComplaintID читает положительный id из пути; при ошибке сам отвечает 400
func parseComplaintID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint ID"})
		return 0, false
	}
	return id, true
}

func updateMessage(outcome service.NotificationOutcome) string {
	switch outcome {
	case service.NotificationSent:
		return "Complaint updated and email sent successfully!"
	case service.NotificationQueued:
		return "Complaint updated, email notification queued"
	default:
		return "Complaint updated, but the email notification could not be queued"
	}
}
