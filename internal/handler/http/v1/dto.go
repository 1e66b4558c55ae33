package v1

import (
	"time"
)

// CreateComplaintRequest DTO для подачи обращения (JSON или multipart-форма).
// id и status назначает сервер, поэтому переданные клиентом значения отклоняются.
// @Description DTO для подачи обращения
type CreateComplaintRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Email       string `json:"email" form:"email" validate:"required,max=255"`
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"required"`
	Location    string `json:"location,omitempty" form:"location" validate:"max=255"`
	ImageURL    string `json:"imageUrl,omitempty" form:"imageUrl" validate:"omitempty,max=2048"`
	ID          int64  `json:"id,omitempty" form:"id" validate:"isdefault" swaggerignore:"true"`
	Status      string `json:"status,omitempty" form:"status" validate:"isdefault" swaggerignore:"true"`
}

// UpdateStatusRequest DTO для смены статуса
// @Description DTO для смены статуса
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,complaint_status" enums:"Pending,In Progress,Resolved"`
}

// ComplaintResponse DTO для ответа с информацией об обращении
// @Description DTO для ответа с информацией об обращении
type ComplaintResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateComplaintResponse DTO для ответа на подачу обращения
type CreateComplaintResponse struct {
	Message   string             `json:"message"`
	Complaint *ComplaintResponse `json:"complaint"`
}

// UpdateStatusResponse DTO для ответа на смену статуса
type UpdateStatusResponse struct {
	Message      string             `json:"message"`
	Complaint    *ComplaintResponse `json:"complaint"`
	Notification string             `json:"notification" enums:"sent,queued,failed"`
}

// ChatRequest DTO сообщения для бота
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// ChatResponse DTO ответа бота: текст с разметкой и экранированный HTML
type ChatResponse struct {
	Reply string `json:"reply"`
	HTML  string `json:"html"`
}
