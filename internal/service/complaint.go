package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/civicflow/internal/metrics"
	"github.com/shenikar/civicflow/internal/models"
	"github.com/shenikar/civicflow/internal/notify"
	"github.com/sirupsen/logrus"
)

// Режимы доставки уведомлений о смене статуса
const (
	// NotifyModeSync - письмо отправляется в рамках запроса, сбой отправки возвращается клиенту
	NotifyModeSync = "sync"
	// NotifyModeAsync - письмо ставится в очередь, результат виден только в логах и метриках
	NotifyModeAsync = "async"
)

// NotificationOutcome - что случилось с уведомлением при смене статуса
type NotificationOutcome string

const (
	NotificationSent   NotificationOutcome = "sent"
	NotificationQueued NotificationOutcome = "queued"
	NotificationFailed NotificationOutcome = "failed"
)

// ComplaintRepository определяет контракт для работы с бд обращений
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	List(ctx context.Context) ([]*models.Complaint, error)
	GetByID(ctx context.Context, id int64) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.Complaint, error)
}

// ComplaintService определяет контракт бизнес-логики обращений
type ComplaintService interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	ListComplaints(ctx context.Context) ([]*models.Complaint, error)
	GetComplaint(ctx context.Context, id int64) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) (*UpdateResult, error)
}

// UpdateResult - итог смены статуса. Complaint заполнен и тогда, когда
// статус сохранен, но письмо не ушло (ошибка ErrNotify).
type UpdateResult struct {
	Complaint    *models.Complaint
	Notification NotificationOutcome
}

// Options - настройки доставки уведомлений
type Options struct {
	NotifyMode    string
	NotifyTimeout time.Duration
}

type complaintService struct {
	repo      ComplaintRepository
	notifier  notify.Notifier
	publisher notify.Publisher
	logger    *logrus.Logger
	opts      Options
}

// NewComplaintService создает сервис. publisher нужен только в режиме async.
func NewComplaintService(repo ComplaintRepository, notifier notify.Notifier, publisher notify.Publisher, logger *logrus.Logger, opts Options) (ComplaintService, error) {
	if opts.NotifyMode == "" {
		opts.NotifyMode = NotifyModeSync
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}

	switch opts.NotifyMode {
	case NotifyModeSync:
		if notifier == nil {
			return nil, fmt.Errorf("notifier is required in %s mode", NotifyModeSync)
		}
	case NotifyModeAsync:
		if publisher == nil {
			return nil, fmt.Errorf("publisher is required in %s mode", NotifyModeAsync)
		}
	default:
		return nil, fmt.Errorf("unknown notify mode %q", opts.NotifyMode)
	}

	return &complaintService{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
	}, nil
}

// CreateComplaint создает обращение со статусом Pending
func (s *complaintService) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "complaint",
		"method":  "CreateComplaint",
		"title":   complaint.Title,
	})
	log.Info("Attempting to create a new complaint")

	if missing := MissingFields(complaint); len(missing) > 0 {
		log.WithField("missing", missing).Warn("Complaint is missing required fields")
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	// id и статус всегда назначает сервер
	complaint.ID = 0
	complaint.Status = models.StatusPending

	if err := s.repo.Create(ctx, complaint); err != nil {
		log.WithError(err).Error("Failed to create complaint in repository")
		return fmt.Errorf("service: could not create complaint: %w", err)
	}

	metrics.ComplaintsCreated.Inc()
	log.WithField("complaint_id", complaint.ID).Info("Complaint created successfully")
	return nil
}

// ListComplaints возвращает все обращения без фильтрации по статусу
func (s *complaintService) ListComplaints(ctx context.Context) ([]*models.Complaint, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "complaint",
		"method":  "ListComplaints",
	})
	log.Info("Listing complaints")

	complaints, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list complaints from repository")
		return nil, fmt.Errorf("service: could not list complaints: %w", err)
	}

	log.WithField("count", len(complaints)).Info("Complaints listed successfully")
	return complaints, nil
}

// GetComplaint получает обращение по ID
func (s *complaintService) GetComplaint(ctx context.Context, id int64) (*models.Complaint, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "complaint",
		"method":       "GetComplaint",
		"complaint_id": id,
	})
	log.Info("Fetching complaint by ID")

	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get complaint from repository")
		return nil, fmt.Errorf("service: could not get complaint: %w", err)
	}

	log.Info("Complaint fetched successfully")
	return complaint, nil
}

// UpdateStatus сохраняет новый статус и уведомляет автора обращения.
// Сохраненный статус не откатывается, даже если письмо не удалось отправить.
func (s *complaintService) UpdateStatus(ctx context.Context, id int64, status models.Status) (*UpdateResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "complaint",
		"method":       "UpdateStatus",
		"complaint_id": id,
		"status":       status,
	})
	log.Info("Attempting to update complaint status")

	if !status.Valid() {
		log.Warn("Rejected unknown status")
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent complaint")
		return nil, fmt.Errorf("service: complaint with id %d not found for update: %w", id, err)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		log.WithError(err).Error("Failed to update complaint status in repository")
		return nil, fmt.Errorf("service: could not update complaint status: %w", err)
	}
	metrics.StatusUpdates.WithLabelValues(string(status)).Inc()
	log.Info("Complaint status persisted")

	result := &UpdateResult{Complaint: updated}

	msg, err := notify.StatusChangedMessage(updated)
	if err != nil {
		result.Notification = NotificationFailed
		metrics.Notifications.WithLabelValues(metrics.NotificationFailed).Inc()
		log.WithError(err).Error("Failed to compose notification")
		return result, fmt.Errorf("%w: %v", ErrNotify, err)
	}

	if s.opts.NotifyMode == NotifyModeAsync {
		s.enqueue(ctx, log, msg, result)
		return result, nil
	}

	if err := s.send(ctx, msg); err != nil {
		result.Notification = NotificationFailed
		metrics.Notifications.WithLabelValues(metrics.NotificationFailed).Inc()
		log.WithError(err).Error("Status updated but notification failed")
		return result, fmt.Errorf("%w: complaint %d: %v", ErrNotify, id, err)
	}

	result.Notification = NotificationSent
	metrics.Notifications.WithLabelValues(metrics.NotificationSent).Inc()
	log.WithField("to", updated.Email).Info("Complaint status updated and notification sent")
	return result, nil
}

// send отправляет письмо синхронно, ограничивая ожидание NotifyTimeout
func (s *complaintService) send(ctx context.Context, msg notify.Message) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
	defer cancel()

	err := notify.Deliver(sendCtx, s.notifier, msg)
	if err == nil && sendCtx.Err() != nil {
		// транспорт не проверил контекст и ответил уже после таймаута
		err = sendCtx.Err()
	}
	return err
}

// enqueue ставит письмо в очередь; сбой публикации только логируется
func (s *complaintService) enqueue(ctx context.Context, log *logrus.Entry, msg notify.Message, result *UpdateResult) {
	if err := s.publisher.Publish(ctx, msg); err != nil {
		result.Notification = NotificationFailed
		metrics.Notifications.WithLabelValues(metrics.NotificationEnqueueFailed).Inc()
		log.WithError(err).Error("Status updated but notification could not be queued")
		return
	}

	result.Notification = NotificationQueued
	metrics.Notifications.WithLabelValues(metrics.NotificationQueued).Inc()
	log.Info("Complaint status updated and notification queued")
}

// MissingFields возвращает имена незаполненных обязательных полей
func MissingFields(c *models.Complaint) []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"title", c.Title},
		{"description", c.Description},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
