package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/repository"
)

// ArchiveService moves completed missions of a calendar month into the
// cold-storage collection and answers queries against it.
type ArchiveService struct {
	repo repository.MissionRepository
}

func NewArchiveService(repo repository.MissionRepository) *ArchiveService {
	return &ArchiveService{repo: repo}
}

// MonthWindow returns the inclusive date window covering the given month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
	return from, to
}

// ArchiveMonth copies all completed missions dated within the month into the
// archived collection, then deletes them from the live collection. The upsert
// runs before the delete so a crash between the two steps never loses a row;
// re-running the operation is safe because the selection only matches rows
// still present in the live collection and the upsert overwrites by id.
func (s *ArchiveService) ArchiveMonth(ctx context.Context, year int, month time.Month) models.ArchiveResult {
	from, to := MonthWindow(year, month)

	missions, err := s.repo.FindCompletedInWindow(ctx, from, to)
	if err != nil {
		return failure(fmt.Errorf("failed to select missions to archive: %w", err))
	}

	if len(missions) == 0 {
		return models.ArchiveResult{
			Success:       true,
			ArchivedCount: 0,
			Message:       fmt.Sprintf("No completed mission to archive for %d/%d", month, year),
		}
	}

	if err := s.repo.UpsertArchived(ctx, missions); err != nil {
		return failure(fmt.Errorf("failed to copy missions to the archive: %w", err))
	}

	ids := make([]primitive.ObjectID, 0, len(missions))
	for _, mission := range missions {
		ids = append(ids, mission.ID)
	}

	// If this delete fails the rows exist in both collections until the next
	// run, which re-selects exactly the leftover rows.
	if err := s.repo.DeleteByIDs(ctx, ids); err != nil {
		return failure(fmt.Errorf("failed to remove archived missions from the live collection: %w", err))
	}

	return models.ArchiveResult{
		Success:       true,
		ArchivedCount: len(missions),
		Message:       fmt.Sprintf("%d mission(s) archived for %d/%d", len(missions), month, year),
	}
}

func failure(err error) models.ArchiveResult {
	return models.ArchiveResult{
		Success:       false,
		ArchivedCount: 0,
		Message:       fmt.Sprintf("%v: %v", models.ErrGateway, err),
	}
}

// GetArchived queries the archived collection, newest mission first. An
// empty result is not an error.
func (s *ArchiveService) GetArchived(ctx context.Context, filter models.ArchiveFilter) ([]models.Mission, error) {
	query := bson.M{}

	switch {
	case !filter.DateFrom.IsZero() && !filter.DateTo.IsZero():
		query["date"] = bson.M{"$gte": filter.DateFrom, "$lte": filter.DateTo}
	case filter.Year != 0 && filter.Month != 0:
		from, to := MonthWindow(filter.Year, filter.Month)
		query["date"] = bson.M{"$gte": from, "$lte": to}
	case filter.Year != 0:
		from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(filter.Year, time.December, 31, 23, 59, 59, 0, time.UTC)
		query["date"] = bson.M{"$gte": from, "$lte": to}
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
	if filter.PaymentMethod != "" {
		query["payment_method"] = filter.PaymentMethod
	}

	return s.repo.FindArchived(ctx, query)
}
