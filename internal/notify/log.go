package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier пишет письмо в лог вместо отправки. Используется без настроенного транспорта.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, bodyHTML string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.WithFields(logrus.Fields{
		"notifier": "log",
		"to":       to,
		"subject":  subject,
		"bytes":    len(bodyHTML),
	}).Info("Notification not sent, logged instead")
	return nil
}
