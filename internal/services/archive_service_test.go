package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
)

func completedMission(date time.Time, amount float64) models.Mission {
	return models.Mission{
		ID:       primitive.NewObjectID(),
		ClientID: primitive.NewObjectID().Hex(),
		Service:  models.ServiceCleaning,
		Date:     date,
		Amount:   &amount,
		Status:   models.StatusCompleted,
	}
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2024, time.February)
	if from != time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("window start = %v", from)
	}
	// 2024 is a leap year.
	if to.Day() != 29 || to.Month() != time.February {
		t.Errorf("window end = %v, want Feb 29", to)
	}
}

func TestArchiveMonth_MovesCompletedMissions(t *testing.T) {
	repo := newMockMissionRepo()
	june := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	inWindow := completedMission(june, 30)
	outOfWindow := completedMission(june.AddDate(0, 1, 0), 50)
	notCompleted := completedMission(june, 40)
	notCompleted.Status = models.StatusPending

	repo.live[inWindow.ID] = inWindow
	repo.live[outOfWindow.ID] = outOfWindow
	repo.live[notCompleted.ID] = notCompleted

	svc := NewArchiveService(repo)
	result := svc.ArchiveMonth(context.Background(), 2025, time.June)

	if !result.Success {
		t.Fatalf("ArchiveMonth failed: %s", result.Message)
	}
	if result.ArchivedCount != 1 {
		t.Errorf("archived count = %d, want 1", result.ArchivedCount)
	}
	if _, stillLive := repo.live[inWindow.ID]; stillLive {
		t.Error("archived mission still present in the live collection")
	}
	if _, ok := repo.archived[inWindow.ID]; !ok {
		t.Error("archived mission missing from the archived collection")
	}
	if _, ok := repo.live[outOfWindow.ID]; !ok {
		t.Error("mission outside the window was removed")
	}
	if _, ok := repo.live[notCompleted.ID]; !ok {
		t.Error("non-completed mission was removed")
	}
}

func TestArchiveMonth_EmptyMonthIsSuccess(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewArchiveService(repo)

	result := svc.ArchiveMonth(context.Background(), 2025, time.March)
	if !result.Success {
		t.Fatalf("empty month reported as failure: %s", result.Message)
	}
	if result.ArchivedCount != 0 {
		t.Errorf("archived count = %d, want 0", result.ArchivedCount)
	}
	if result.Message == "" {
		t.Error("empty month result carries no message")
	}
}

func TestArchiveMonth_Idempotent(t *testing.T) {
	repo := newMockMissionRepo()
	mission := completedMission(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 30)
	repo.live[mission.ID] = mission

	svc := NewArchiveService(repo)

	first := svc.ArchiveMonth(context.Background(), 2025, time.June)
	if !first.Success || first.ArchivedCount != 1 {
		t.Fatalf("first run = %+v", first)
	}

	second := svc.ArchiveMonth(context.Background(), 2025, time.June)
	if !second.Success {
		t.Fatalf("second run failed: %s", second.Message)
	}
	if second.ArchivedCount != 0 {
		t.Errorf("second run archived count = %d, want 0", second.ArchivedCount)
	}
	if len(repo.archived) != 1 {
		t.Errorf("archived collection size = %d, want 1", len(repo.archived))
	}
}

func TestArchiveMonth_UpsertFailureAbortsDelete(t *testing.T) {
	repo := newMockMissionRepo()
	mission := completedMission(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 30)
	repo.live[mission.ID] = mission
	repo.failUpsert = errors.New("archive table unreachable")

	svc := NewArchiveService(repo)
	result := svc.ArchiveMonth(context.Background(), 2025, time.June)

	if result.Success {
		t.Fatal("ArchiveMonth reported success despite upsert failure")
	}
	if _, ok := repo.live[mission.ID]; !ok {
		t.Error("live mission was deleted even though the upsert failed")
	}
	if len(repo.archived) != 0 {
		t.Error("archived collection was written despite upsert failure")
	}
}

func TestArchiveMonth_DeleteFailureKeepsBothCopies(t *testing.T) {
	repo := newMockMissionRepo()
	mission := completedMission(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 30)
	repo.live[mission.ID] = mission
	repo.failDelete = errors.New("connection reset")

	svc := NewArchiveService(repo)
	result := svc.ArchiveMonth(context.Background(), 2025, time.June)

	if result.Success {
		t.Fatal("ArchiveMonth reported success despite delete failure")
	}
	// The archived copy is durable; the live copy remains until a retry.
	if _, ok := repo.archived[mission.ID]; !ok {
		t.Error("archived copy missing after delete failure")
	}
	if _, ok := repo.live[mission.ID]; !ok {
		t.Error("live copy missing after delete failure")
	}

	// A retry after the fault clears finishes the move.
	repo.failDelete = nil
	retry := svc.ArchiveMonth(context.Background(), 2025, time.June)
	if !retry.Success || retry.ArchivedCount != 1 {
		t.Fatalf("retry = %+v", retry)
	}
	if _, ok := repo.live[mission.ID]; ok {
		t.Error("live copy still present after successful retry")
	}
}

func TestArchiveThenQuery_EndToEnd(t *testing.T) {
	repo := newMockMissionRepo()
	clients := newMockClientRepo()
	client := &models.Client{Name: "Claire", Email: "claire@example.fr"}
	clients.Create(context.Background(), client)

	missions := NewMissionService(repo, clients, &mockNotifier{})
	archive := NewArchiveService(repo)

	mission := &models.Mission{
		ClientID:   client.ID.Hex(),
		Service:    models.ServiceCleaning,
		Date:       time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Hours:      1,
		Minutes:    30,
		HourlyRate: floatPtr(20),
	}
	if err := missions.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if mission.Amount == nil || *mission.Amount != 30 {
		t.Fatalf("stored amount = %v, want 30.00", mission.Amount)
	}

	if err := missions.UpdateStatus(context.Background(), mission.ID, models.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	result := archive.ArchiveMonth(context.Background(), 2025, time.June)
	if !result.Success || result.ArchivedCount != 1 {
		t.Fatalf("ArchiveMonth = %+v", result)
	}

	if _, err := missions.GetByID(context.Background(), mission.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("live lookup after archival = %v, want ErrNotFound", err)
	}

	archived, err := archive.GetArchived(context.Background(), models.ArchiveFilter{Year: 2025, Month: time.June})
	if err != nil {
		t.Fatalf("GetArchived returned error: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archived query returned %d missions, want 1", len(archived))
	}
	if archived[0].Amount == nil || *archived[0].Amount != 30 {
		t.Errorf("archived amount = %v, want 30.00", archived[0].Amount)
	}
}

func TestGetArchived_FiltersByWorkerAndPaymentMethod(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewArchiveService(repo)

	marie := primitive.NewObjectID().Hex()
	sophie := primitive.NewObjectID().Hex()
	june := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	byCard := completedMission(june, 40)
	byCard.IntervenantID = &marie
	byCard.PaymentMethod = models.PaymentCard

	byCheck := completedMission(june, 55)
	byCheck.IntervenantID = &marie
	byCheck.PaymentMethod = models.PaymentCheck

	otherWorker := completedMission(june, 62)
	otherWorker.IntervenantID = &sophie
	otherWorker.PaymentMethod = models.PaymentCard

	unassigned := completedMission(june, 18)
	unassigned.PaymentMethod = models.PaymentCard

	for _, mission := range []models.Mission{byCard, byCheck, otherWorker, unassigned} {
		repo.archived[mission.ID] = mission
	}

	got, err := svc.GetArchived(context.Background(), models.ArchiveFilter{IntervenantID: marie})
	if err != nil {
		t.Fatalf("GetArchived returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("worker filter returned %d missions, want 2", len(got))
	}
	for _, mission := range got {
		if mission.IntervenantID == nil || *mission.IntervenantID != marie {
			t.Errorf("worker filter returned mission for %v", mission.IntervenantID)
		}
	}

	got, err = svc.GetArchived(context.Background(), models.ArchiveFilter{PaymentMethod: models.PaymentCheck})
	if err != nil {
		t.Fatalf("GetArchived returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != byCheck.ID {
		t.Fatalf("payment filter = %v, want only the check-paid mission", got)
	}

	got, err = svc.GetArchived(context.Background(), models.ArchiveFilter{
		IntervenantID: marie,
		PaymentMethod: models.PaymentCard,
	})
	if err != nil {
		t.Fatalf("GetArchived returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != byCard.ID {
		t.Fatalf("combined filter = %v, want only Marie's card-paid mission", got)
	}
}

func TestGetArchived_EmptyResultIsNotAnError(t *testing.T) {
	svc := NewArchiveService(newMockMissionRepo())

	archived, err := svc.GetArchived(context.Background(), models.ArchiveFilter{Year: 2030, Month: time.January})
	if err != nil {
		t.Fatalf("GetArchived returned error: %v", err)
	}
	if len(archived) != 0 {
		t.Errorf("expected empty result, got %d", len(archived))
	}
}
