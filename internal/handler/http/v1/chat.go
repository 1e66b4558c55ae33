package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shenikar/civicflow/internal/chatbot"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// @Summary Ask the status bot
// @Description Ask about a complaint in free text; the first number in the message is taken as its ID
// @Tags Chat
// @Accept json
// @Produce json
// @Param message body ChatRequest true "Chat message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /chat [post]
func (h *Handler) chat(c *gin.Context) {
	var input ChatRequest
	log := h.logger.WithField("method", "chat")

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

	reply, err := h.bot.Reply(c.Request.Context(), input.Message)
	if err != nil {
		log.WithError(err).Error("Bot failed to answer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check complaint status"})
		return
	}

	c.JSON(http.StatusOK, toChatResponse(reply))
}

// @Summary Status bot over websocket
// @Description Upgrade to a websocket. Send text frames {"message": "..."}; each gets a {"reply", "html"} frame back. A greeting is sent on connect.
// @Tags Chat
// @Router /chat/ws [get]
func (h *Handler) chatWebSocket(c *gin.Context) {
	log := h.logger.WithField("method", "chatWebSocket")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		log.WithError(err).Warn("Failed to upgrade connection")
		return
	}
	log.Info("Chat websocket connected")

	send := make(chan any, 16)
	done := make(chan struct{})
	go h.chatWritePump(conn, send, done)

	send <- toChatResponse(chatbot.Reply{Text: chatbot.Greeting, HTML: chatbot.RenderHTML(chatbot.Greeting)})

	defer func() {
		close(send)
		<-done
		log.Info("Chat websocket closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := c.Request.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("Unexpected websocket close")
			}
			return
		}

		var input ChatRequest
		if err := json.Unmarshal(data, &input); err != nil {
			send <- gin.H{"error": "invalid message"}
			continue
		}
		if err := h.validate.Struct(input); err != nil {
			send <- gin.H{"error": err.Error()}
			continue
		}

		reply, err := h.bot.Reply(ctx, input.Message)
		if err != nil {
			log.WithError(err).Error("Bot failed to answer")
			send <- gin.H{"error": "Failed to check complaint status"}
			continue
		}
		send <- toChatResponse(reply)
	}
}

// chatWritePump - единственный писатель в соединение: ответы бота и ping
func (h *Handler) chatWritePump(conn *websocket.Conn, send <-chan any, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.WithError(err).Warn("Failed to write chat message")
				drain(send)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				drain(send)
				return
			}
		}
	}
}

// drain вычитывает канал до закрытия, чтобы читатель не заблокировался на отправке
func drain(send <-chan any) {
	go func() {
		for range send {
		}
	}()
}

func toChatResponse(reply chatbot.Reply) ChatResponse {
	return ChatResponse{Reply: reply.Text, HTML: reply.HTML}
}
