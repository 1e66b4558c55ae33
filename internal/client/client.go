// Package client - Go-клиент HTTP API CivicFlow с локальным кэшем обращений.
//
// Кэш повторяет то, что вернул сервер: при ответе 2xx, а также при ответе 500,
// в котором сервер сообщает уже сохраненный статус обращения.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/civicflow/internal/models"
)

const defaultTimeout = 15 * time.Second

// APIError - ответ сервера с кодом не из диапазона 2xx
type APIError struct {
	StatusCode int
	Message    string
	// Complaint заполнен, если сервер сохранил статус, но не смог отправить письмо
	Complaint *models.Complaint
}

func (e *APIError) Error() string {
	return fmt.Sprintf("civicflow api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound сообщает, что сервер ответил 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// NewComplaint - поля, которые житель заполняет при подаче обращения
type NewComplaint struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// StatusUpdate - результат смены статуса
type StatusUpdate struct {
	Message      string            `json:"message"`
	Complaint    *models.Complaint `json:"complaint"`
	Notification string            `json:"notification"`
}

// ChatReply - ответ бота статусов
type ChatReply struct {
	Reply string `json:"reply"`
	HTML  string `json:"html"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[int64]models.Complaint
}

type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент (таймауты, транспорт, тесты)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New создает клиент; baseURL - адрес сервера без /api, например http://localhost:5000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		cache:      make(map[int64]models.Complaint),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit подает обращение и кладет созданную сервером запись в кэш
func (c *Client) Submit(ctx context.Context, input NewComplaint) (*models.Complaint, error) {
	var resp struct {
		Message   string            `json:"message"`
		Complaint *models.Complaint `json:"complaint"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/complaints", input, &resp); err != nil {
		return nil, err
	}
	if resp.Complaint == nil {
		return nil, fmt.Errorf("civicflow api: create response has no complaint")
	}

	c.store(*resp.Complaint)
	return resp.Complaint, nil
}

// Refresh загружает все обращения и полностью заменяет ими кэш
func (c *Client) Refresh(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := c.do(ctx, http.MethodGet, "/api/complaints", nil, &complaints); err != nil {
		return nil, err
	}

	fresh := make(map[int64]models.Complaint, len(complaints))
	for _, complaint := range complaints {
		fresh[complaint.ID] = complaint
	}

	c.mu.Lock()
	c.cache = fresh
	c.mu.Unlock()
	return complaints, nil
}

// Get запрашивает обращение у сервера и обновляет его запись в кэше
func (c *Client) Get(ctx context.Context, id int64) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := c.do(ctx, http.MethodGet, "/api/complaints/"+strconv.FormatInt(id, 10), nil, &complaint); err != nil {
		return nil, err
	}

	c.store(complaint)
	return &complaint, nil
}

// UpdateStatus меняет статус на сервере и обновляет кэш.
// Если статус сохранен, но письмо не ушло, возвращается *APIError с записью в Complaint,
// и кэш все равно получает эту запись.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status models.Status) (*StatusUpdate, error) {
	var resp StatusUpdate
	body := map[string]string{"status": status.String()}
	if err := c.do(ctx, http.MethodPut, "/api/complaints/"+strconv.FormatInt(id, 10), body, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Complaint != nil {
			c.store(*apiErr.Complaint)
		}
		return nil, err
	}
	if resp.Complaint == nil {
		return nil, fmt.Errorf("civicflow api: update response has no complaint")
	}

	c.store(*resp.Complaint)
	return &resp, nil
}

// Chat задает вопрос боту статусов
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	var reply ChatReply
	if err := c.do(ctx, http.MethodPost, "/api/chat", map[string]string{"message": message}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Cached возвращает обращение из кэша без запроса к серверу
func (c *Client) Cached(id int64) (models.Complaint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	complaint, ok := c.cache[id]
	return complaint, ok
}

// Complaints возвращает все обращения из кэша по возрастанию id
func (c *Client) Complaints() []models.Complaint {
	return c.filter(func(*models.Complaint) bool { return true })
}

// Resolved возвращает публичный список: обращения из кэша со статусом Resolved
func (c *Client) Resolved() []models.Complaint {
	return c.filter((*models.Complaint).IsPublic)
}

func (c *Client) filter(keep func(*models.Complaint) bool) []models.Complaint {
	c.mu.RLock()
	out := make([]models.Complaint, 0, len(c.cache))
	for _, complaint := range c.cache {
		if keep(&complaint) {
			out = append(out, complaint)
		}
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Client) store(complaint models.Complaint) {
	c.mu.Lock()
	c.cache[complaint.ID] = complaint
	c.mu.Unlock()
}

// do выполняет запрос и декодирует ответ 2xx в out; иначе возвращает *APIError
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error     string            `json:"error"`
			Complaint *models.Complaint `json:"complaint"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			if errBody.Error != "" {
				apiErr.Message = errBody.Error
			}
			apiErr.Complaint = errBody.Complaint
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
