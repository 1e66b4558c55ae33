package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civicflow/internal/models"
	"github.com/shenikar/civicflow/internal/service"
)

const complaintColumns = `
	id,
	name,
	email,
	title,
	description,
	location,
	image_url,
	status,
	created_at,
	updated_at`

type ComplaintRepository struct {
	db *pgxpool.Pool
}

func NewComplaintRepository(db *pgxpool.Pool) service.ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create сохраняет новое обращение; id и временные метки назначает бд
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if missing := service.MissingFields(complaint); len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", service.ErrValidation, strings.Join(missing, ", "))
	}
	if complaint.Status == "" {
		complaint.Status = models.StatusPending
	}

	query := `
		INSERT INTO complaints (name, email, title, description, location, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		complaint.Name,
		complaint.Email,
		complaint.Title,
		complaint.Description,
		complaint.Location,
		complaint.ImageURL,
		complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to create complaint: %v", service.ErrStore, err)
	}
	return nil
}

// List возвращает все обращения в порядке создания
func (r *ComplaintRepository) List(ctx context.Context) ([]*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY id;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list complaints: %v", service.ErrStore, err)
	}
	defer rows.Close()

	complaints := make([]*models.Complaint, 0)
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan complaint row: %v", service.ErrStore, err)
		}
		complaints = append(complaints, complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error list iteration: %v", service.ErrStore, err)
	}
	return complaints, nil
}

// GetByID возвращает обращение по id
func (r *ComplaintRepository) GetByID(ctx context.Context, id int64) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1;`

	complaint, err := scanComplaint(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("complaint with id %d: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to get complaint by id: %v", service.ErrStore, err)
	}
	return complaint, nil
}

// UpdateStatus меняет только статус; несуществующая запись не создается
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.Complaint, error) {
	query := `
		UPDATE complaints SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + complaintColumns + `;`

	complaint, err := scanComplaint(r.db.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("complaint with id %d not found for update: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to update complaint status: %v", service.ErrStore, err)
	}
	return complaint, nil
}

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := row.Scan(
		&complaint.ID,
		&complaint.Name,
		&complaint.Email,
		&complaint.Title,
		&complaint.Description,
		&complaint.Location,
		&complaint.ImageURL,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}
