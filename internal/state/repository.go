package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows List results
type Filter struct {
	Platform    string
	ProjectPath string
	Limit       int
}

// Repository provides database operations for deployment history
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new state repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a deployment record
func (r *Repository) Create(ctx context.Context, deployment *Deployment) error {
	if deployment.ID == uuid.Nil {
		deployment.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(deployment).Error; err != nil {
		return fmt.Errorf("failed to create deployment record: %w", err)
	}

	return nil
}

// Get retrieves a deployment by ID
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Deployment, error) {
	var deployment Deployment

	if err := r.db.WithContext(ctx).First(&deployment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("deployment not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}

	return &deployment, nil
}

// List retrieves deployments, most recent first
func (r *Repository) List(ctx context.Context, filter Filter) ([]Deployment, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.ProjectPath != "" {
		query = query.Where("project_path LIKE ?", "%"+filter.ProjectPath+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var deployments []Deployment
	if err := query.Find(&deployments).Error; err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	return deployments, nil
}

// LastForProject returns the most recent deployment of the project at
// path, or (nil, nil) when the project was never deployed
func (r *Repository) LastForProject(ctx context.Context, path string) (*Deployment, error) {
	var deployment Deployment

	err := r.db.WithContext(ctx).
		Where("project_path = ?", path).
		Order("created_at DESC").
		First(&deployment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last deployment: %w", err)
	}

	return &deployment, nil
}

// CountByStatus counts deployments with the given status
func (r *Repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&Deployment{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count deployments: %w", err)
	}

	return count, nil
}

// Delete removes one deployment record
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&Deployment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}

	return nil
}

// Clear removes all deployment records and returns how many went away
func (r *Repository) Clear(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&Deployment{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear deployment history: %w", result.Error)
	}

	return result.RowsAffected, nil
}
