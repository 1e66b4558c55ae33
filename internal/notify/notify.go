// Package notify доставляет жителям письма об изменении статуса обращения.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/shenikar/civicflow/internal/models"
)

// Notifier - транспорт, отправляющий одно письмо. Одна попытка, без повторов.
type Notifier interface {
	Send(ctx context.Context, to, subject, bodyHTML string) error
}

// Message - готовое к отправке уведомление
type Message struct {
	ComplaintID int64  `json:"complaint_id"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTML        string `json:"html"`
}

var statusChangedTmpl = template.Must(template.New("status_changed").Parse(`<div style="font-family: Arial, sans-serif; padding: 10px;">
  <h2>Hi {{.Name}},</h2>
  <p>Your complaint titled <strong>{{.Title}}</strong> has been updated.</p>
  <p><b>Current Status:</b> {{.Status}}</p>
  <p>Thank you for helping us improve our city!</p>
  <hr/>
  <p style="font-size: 12px; color: gray;">CivicFlow - Automated Notification</p>
</div>
`))

// StatusChangedMessage собирает письмо о новом статусе обращения
func StatusChangedMessage(c *models.Complaint) (Message, error) {
	var body bytes.Buffer
	if err := statusChangedTmpl.Execute(&body, c); err != nil {
		return Message{}, fmt.Errorf("failed to render notification for complaint %d: %w", c.ID, err)
	}

	return Message{
		ComplaintID: c.ID,
		To:          c.Email,
		Subject:     fmt.Sprintf("Update on your complaint #%d", c.ID),
		HTML:        body.String(),
	}, nil
}

// Deliver отправляет сообщение через транспорт
func Deliver(ctx context.Context, n Notifier, msg Message) error {
	return n.Send(ctx, msg.To, msg.Subject, msg.HTML)
}
