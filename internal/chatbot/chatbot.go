// Package chatbot отвечает жителям на вопросы о статусе обращения по его номеру.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/shenikar/civicflow/internal/models"
	"github.com/shenikar/civicflow/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	Greeting = "Hello! I'm CivicFlow's Status Bot. I can help you check the progress of your service requests. " +
		"Try asking: **'What is the status of ID 1?'** or **'Check complaint 2.'**"
	missingIDReply = "I'm sorry, I need a complaint ID to check the status. " +
		"Please try phrasing it like: 'What is the status for ID 42?'"
)

var (
	idPattern     = regexp.MustCompile(`\b\d+\b`)
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*]+)\*`)
)

// ComplaintFinder - источник актуальных данных об обращении
type ComplaintFinder interface {
	GetComplaint(ctx context.Context, id int64) (*models.Complaint, error)
}

// Reply - ответ бота: текст с разметкой **...** и готовый экранированный HTML
type Reply struct {
	Text string
	HTML string
}

type Bot struct {
	finder ComplaintFinder
	logger *logrus.Logger
}

func New(finder ComplaintFinder, logger *logrus.Logger) *Bot {
	return &Bot{finder: finder, logger: logger}
}

// Reply ищет первое отдельно стоящее число в сообщении и сообщает статус обращения с этим номером.
// Ошибка возвращается только при сбое хранилища; неизвестный номер дает обычный ответ.
func (b *Bot) Reply(ctx context.Context, message string) (Reply, error) {
	log := b.logger.WithFields(logrus.Fields{
		"component": "chatbot",
		"method":    "Reply",
	})

	rawID := ExtractID(message)
	if rawID == "" {
		log.Debug("No complaint id in message")
		return newReply(missingIDReply), nil
	}
	log = log.WithField("complaint_id", rawID)

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		// число не помещается в int64, такого обращения быть не может
		return newReply(notFoundReply(rawID)), nil
	}

	complaint, err := b.finder.GetComplaint(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			log.Info("Complaint requested in chat was not found")
			return newReply(notFoundReply(rawID)), nil
		}
		log.WithError(err).Error("Failed to look up complaint for chat")
		return Reply{}, fmt.Errorf("chatbot: could not look up complaint %d: %w", id, err)
	}

	log.Info("Answered complaint status in chat")
	return newReply(fmt.Sprintf("Success! Complaint **#%d** is currently **%s**. Details: *%s*",
		complaint.ID, complaint.Status, plainText(complaint.Description))), nil
}

// ExtractID возвращает первое отдельно стоящее число в тексте или пустую строку
func ExtractID(message string) string {
	return idPattern.FindString(strings.TrimSpace(message))
}

// RenderHTML экранирует текст и превращает **x** в <strong>, а *x* в <em>
func RenderHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
	return italicPattern.ReplaceAllString(escaped, "<em>$1</em>")
}

// plainText убирает из пользовательского текста символы разметки
func plainText(text string) string {
	return strings.ReplaceAll(text, "*", "")
}

func notFoundReply(rawID string) string {
	return fmt.Sprintf("We couldn't locate complaint ID **#%s** in our system. Please ensure the number is correct.", rawID)
}

func newReply(text string) Reply {
	return Reply{Text: text, HTML: RenderHTML(text)}
}
