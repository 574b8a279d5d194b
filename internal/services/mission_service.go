package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/repository"
)

type MissionService interface {
	Create(ctx context.Context, mission *models.Mission) error
	Edit(ctx context.Context, id primitive.ObjectID, patch models.MissionPatch) error
	UpdateBilling(ctx context.Context, id primitive.ObjectID, hours, minutes int, rate *float64) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.MissionStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mission, error)
	GetAll(ctx context.Context) ([]models.Mission, error)
	Filter(ctx context.Context, filter MissionFilter) ([]models.Mission, error)
}

// MissionFilter narrows the dashboard mission listing.
type MissionFilter struct {
	Status        models.MissionStatus
	ClientID      string
	IntervenantID string
	Service       models.ServiceType
}

type missionService struct {
	repo       repository.MissionRepository
	clientRepo repository.ClientRepository
	notifier   Notifier
}

func NewMissionService(repo repository.MissionRepository, clientRepo repository.ClientRepository, notifier Notifier) MissionService {
	return &missionService{repo: repo, clientRepo: clientRepo, notifier: notifier}
}

// ComputeAmount derives the gross amount from the duration and hourly rate,
// rounded to 2 decimal places. A missing rate yields no amount.
func ComputeAmount(hours, minutes int, rate *float64) *float64 {
	if rate == nil {
		return nil
	}
	amount := (float64(hours) + float64(minutes)/60) * *rate
	amount = math.Round(amount*100) / 100
	return &amount
}

func (s *missionService) Create(ctx context.Context, mission *models.Mission) error {
	if err := mission.Validate(); err != nil {
		return err
	}

	mission.Status = models.StatusPending
	if mission.Amount == nil {
		mission.Amount = ComputeAmount(mission.Hours, mission.Minutes, mission.HourlyRate)
	}

	return s.repo.Create(ctx, mission)
}

// Edit merges the provided fields into the stored mission. Untouched fields
// are not re-validated and the amount is not recomputed on this path.
func (s *missionService) Edit(ctx context.Context, id primitive.ObjectID, patch models.MissionPatch) error {
	fields := bson.M{}
	if patch.ClientID != nil {
		fields["client_id"] = *patch.ClientID
	}
	// An empty intervenant id clears the assignment instead of storing "".
	unassign := false
	if patch.IntervenantID != nil {
		if *patch.IntervenantID == "" {
			unassign = true
		} else {
			fields["intervenant_id"] = *patch.IntervenantID
		}
	}
	if patch.Service != nil {
		fields["service"] = *patch.Service
	}
	if patch.Date != nil {
		fields["date"] = *patch.Date
	}
	if patch.StartTime != nil {
		fields["start_time"] = *patch.StartTime
	}
	if patch.EndTime != nil {
		fields["end_time"] = *patch.EndTime
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.PaymentMethod != nil {
		fields["payment_method"] = *patch.PaymentMethod
	}
	if patch.Hours != nil {
		fields["hours"] = *patch.Hours
	}
	if patch.Minutes != nil {
		if *patch.Minutes < 0 || *patch.Minutes > 59 {
			return fmt.Errorf("%w: Minutes must be between 0 and 59", models.ErrValidation)
		}
		fields["minutes"] = *patch.Minutes
	}
	if patch.HourlyRate != nil {
		fields["hourly_rate"] = *patch.HourlyRate
	}
	if patch.Amount != nil {
		fields["amount"] = *patch.Amount
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", models.ErrValidation, *patch.Status)
		}
		fields["status"] = *patch.Status
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
	}
	if unassign {
		return s.repo.UnassignIntervenant(ctx, id)
	}
	return nil
}

// UpdateBilling is the dedicated duration/rate-change path: it always
// recomputes the amount from the new values.
func (s *missionService) UpdateBilling(ctx context.Context, id primitive.ObjectID, hours, minutes int, rate *float64) error {
	if minutes < 0 || minutes > 59 {
		return fmt.Errorf("%w: Minutes must be between 0 and 59", models.ErrValidation)
	}

	fields := bson.M{
		"hours":   hours,
		"minutes": minutes,
	}
	if rate != nil {
		fields["hourly_rate"] = *rate
	}
	if amount := ComputeAmount(hours, minutes, rate); amount != nil {
		fields["amount"] = *amount
	}

	return s.repo.UpdateFields(ctx, id, fields)
}

// UpdateStatus moves the mission to the given status. Transitions are not
// restricted; a completed or cancelled mission can be reopened. The status
// email is best-effort: the status change persists regardless of the
// notification outcome.
func (s *missionService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.MissionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.notifyClient(ctx, id, status)
	return nil
}

func (s *missionService) notifyClient(ctx context.Context, id primitive.ObjectID, status models.MissionStatus) {
	mission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("[MAIL] Failed to load mission %s for notification: %v", id.Hex(), err)
		return
	}

	clientID, err := primitive.ObjectIDFromHex(mission.ClientID)
	if err != nil {
		log.Printf("[MAIL] Mission %s has invalid client id %q", id.Hex(), mission.ClientID)
		return
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		log.Printf("[MAIL] Failed to load client %s for notification: %v", mission.ClientID, err)
		return
	}

	if err := s.notifier.SendStatusUpdate(client.Email, client.Name, string(status)); err != nil {
		log.Printf("[MAIL] Failed to send status email to %s: %v", client.Email, err)
	}
}

func (s *missionService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func (s *missionService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *missionService) GetAll(ctx context.Context) ([]models.Mission, error) {
	return s.repo.GetAll(ctx)
}

func (s *missionService) Filter(ctx context.Context, filter MissionFilter) ([]models.Mission, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ClientID != "" {
		query["client_id"] = filter.ClientID
	}
	if filter.IntervenantID != "" {
		query["intervenant_id"] = filter.IntervenantID
	}
	if filter.Service != "" {
		query["service"] = filter.Service
	}
	return s.repo.Filter(ctx, query)
}
