package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Обращения жителей
	complaints := api.Group("/complaints")
	{
		complaints.POST("", h.createComplaint)
		complaints.GET("", h.listComplaints)
		complaints.GET("/:id", h.getComplaint)
		complaints.PUT("/:id", h.updateComplaintStatus)
	}

	// Бот статусов
	chat := api.Group("/chat")
	{
		chat.POST("", h.chat)
		chat.GET("/ws", h.chatWebSocket)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
