package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/repository"
)

type ClientService interface {
	Signup(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ClientStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	GetAll(ctx context.Context) ([]models.Client, error)
}

type clientService struct {
	repo     repository.ClientRepository
	notifier Notifier
}

func NewClientService(repo repository.ClientRepository, notifier Notifier) ClientService {
	return &clientService{repo: repo, notifier: notifier}
}

// Signup registers a client from the public landing form.
func (s *clientService) Signup(ctx context.Context, client *models.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}

	client.Status = models.ClientPending
	if err := s.repo.Create(ctx, client); err != nil {
		return err
	}

	if err := s.notifier.SendStatusUpdate(client.Email, client.Name, string(models.ClientPending)); err != nil {
		log.Printf("[MAIL] Failed to send signup email to %s: %v", client.Email, err)
	}
	return nil
}

func (s *clientService) Update(ctx context.Context, client *models.Client) error {
	if client.ID.IsZero() {
		return models.ErrInvalidID
	}
	if err := client.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, client)
}

// UpdateStatus persists the new lifecycle status and emails the client. As
// with missions, the email is best-effort.
func (s *clientService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ClientStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("[MAIL] Failed to load client %s for notification: %v", id.Hex(), err)
		return nil
	}
	if err := s.notifier.SendStatusUpdate(client.Email, client.Name, string(status)); err != nil {
		log.Printf("[MAIL] Failed to send status email to %s: %v", client.Email, err)
	}
	return nil
}

func (s *clientService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func (s *clientService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) GetAll(ctx context.Context) ([]models.Client, error) {
	return s.repo.GetAll(ctx)
}
