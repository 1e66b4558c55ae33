package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civicflow/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	defaultPollTimeout = 2 * time.Second
	popErrorBackoff    = time.Second
)

// Worker забирает уведомления из очереди Redis и отправляет их по одному.
// Неудачная отправка не повторяется: она попадает только в лог и метрики.
type Worker struct {
	redisClient *redis.Client
	notifier    Notifier
	logger      *logrus.Logger
	sendTimeout time.Duration
	pollTimeout time.Duration
	wg          sync.WaitGroup
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, notifier Notifier, logger *logrus.Logger, sendTimeout time.Duration) *Worker {
	return &Worker{
		redisClient: redisClient,
		notifier:    notifier,
		logger:      logger,
		sendTimeout: sendTimeout,
		pollTimeout: defaultPollTimeout,
	}
}

// Start запускает горутину обработки очереди; она завершается при отмене ctx
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting notification worker...")
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping notification worker.")
				return
			default:
			}

			if _, err := w.processNext(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				w.logger.WithError(err).Error("Failed to pop notification from Redis")
				select {
				case <-ctx.Done():
				case <-time.After(popErrorBackoff):
				}
			}
		}
	}()
}

// Wait блокируется до остановки воркера
func (w *Worker) Wait() {
	w.wg.Wait()
}

// processNext ждет одно сообщение не дольше pollTimeout и доставляет его.
// Возвращает false, если очередь была пуста.
func (w *Worker) processNext(ctx context.Context) (bool, error) {
	// result[0] - ключ, result[1] - значение
	result, err := w.redisClient.BRPop(ctx, w.pollTimeout, notificationQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	var msg Message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal notification from Redis")
		return true, nil
	}

	w.deliver(ctx, msg)
	return true, nil
}

func (w *Worker) deliver(ctx context.Context, msg Message) {
	log := w.logger.WithFields(logrus.Fields{
		"complaint_id": msg.ComplaintID,
		"to":           msg.To,
	})
	log.Debug("Processing notification...")

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	if err := Deliver(sendCtx, w.notifier, msg); err != nil {
		metrics.Notifications.WithLabelValues(metrics.NotificationFailed).Inc()
		log.WithError(err).Error("Failed to deliver notification")
		return
	}

	metrics.Notifications.WithLabelValues(metrics.NotificationSent).Inc()
	log.Info("Notification delivered successfully")
}
