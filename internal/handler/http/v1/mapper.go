package v1

import "github.com/shenikar/civicflow/internal/models"

// DTOToComplaintModel преобразует DTO подачи обращения в доменную модель
func DTOToComplaintModel(dto CreateComplaintRequest) *models.Complaint {
	return &models.Complaint{
		Name:        dto.Name,
		Email:       dto.Email,
		Title:       dto.Title,
		Description: dto.Description,
		Location:    dto.Location,
		ImageURL:    dto.ImageURL,
	}
}

// ModelToComplaintResponse преобразует доменную модель в DTO для ответа
func ModelToComplaintResponse(model *models.Complaint) *ComplaintResponse {
	return &ComplaintResponse{
		ID:          model.ID,
		Name:        model.Name,
		Email:       model.Email,
		Title:       model.Title,
		Description: model.Description,
		Location:    model.Location,
		ImageURL:    model.ImageURL,
		Status:      model.Status.String(),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ModelsToComplaintResponses преобразует слайс моделей в слайс DTO
func ModelsToComplaintResponses(models []*models.Complaint) []*ComplaintResponse {
	responses := make([]*ComplaintResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToComplaintResponse(model)
	}
	return responses
}
