package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/repository"
)

type IntervenantService interface {
	Create(ctx context.Context, intervenant *models.Intervenant) error
	Update(ctx context.Context, intervenant *models.Intervenant) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Intervenant, error)
	GetAll(ctx context.Context) ([]models.Intervenant, error)
}

type intervenantService struct {
	repo repository.IntervenantRepository
}

func NewIntervenantService(repo repository.IntervenantRepository) IntervenantService {
	return &intervenantService{repo: repo}
}

// Create registers an intervenant, either from the public application form
// or from the admin dashboard.
func (s *intervenantService) Create(ctx context.Context, intervenant *models.Intervenant) error {
	if err := intervenant.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, intervenant)
}

func (s *intervenantService) Update(ctx context.Context, intervenant *models.Intervenant) error {
	if intervenant.ID.IsZero() {
		return models.ErrInvalidID
	}
	if err := intervenant.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, intervenant)
}

func (s *intervenantService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func (s *intervenantService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Intervenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *intervenantService) GetAll(ctx context.Context) ([]models.Intervenant, error) {
	return s.repo.GetAll(ctx)
}
