package models

import (
	"time"
)

// Complaint - обращение жителя о проблеме в городе
type Complaint struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsPublic сообщает, попадает ли обращение в публичный список решенных проблем
func (c *Complaint) IsPublic() bool {
	return c.Status == StatusResolved
}
