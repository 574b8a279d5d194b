package services

import (
	"context"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/repository"
)

type SettingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *SettingsService) Save(ctx context.Context, settings *models.Settings) error {
	return s.repo.Save(ctx, settings)
}
