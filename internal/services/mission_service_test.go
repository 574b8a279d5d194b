package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
)

// mockMissionRepo is an in-memory stand-in for the Mongo-backed repository.
type mockMissionRepo struct {
	live     map[primitive.ObjectID]models.Mission
	archived map[primitive.ObjectID]models.Mission

	failSelect error
	failUpsert error
	failDelete error
}

func newMockMissionRepo() *mockMissionRepo {
	return &mockMissionRepo{
		live:     map[primitive.ObjectID]models.Mission{},
		archived: map[primitive.ObjectID]models.Mission{},
	}
}

func (m *mockMissionRepo) Create(_ context.Context, mission *models.Mission) error {
	mission.ID = primitive.NewObjectID()
	mission.CreatedAt = time.Now()
	mission.UpdatedAt = time.Now()
	m.live[mission.ID] = *mission
	return nil
}

func (m *mockMissionRepo) UpdateFields(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	mission, ok := m.live[id]
	if !ok {
		return models.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			mission.Status = value.(models.MissionStatus)
		case "intervenant_id":
			intervenantID := value.(string)
			mission.IntervenantID = &intervenantID
		case "hours":
			mission.Hours = value.(int)
		case "minutes":
			mission.Minutes = value.(int)
		case "hourly_rate":
			rate := value.(float64)
			mission.HourlyRate = &rate
		case "amount":
			amount := value.(float64)
			mission.Amount = &amount
		case "description":
			mission.Description = value.(string)
		case "updated_at":
			mission.UpdatedAt = value.(time.Time)
		}
	}
	m.live[id] = mission
	return nil
}

func (m *mockMissionRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.MissionStatus) error {
	return m.UpdateFields(ctx, id, bson.M{"status": status})
}

func (m *mockMissionRepo) UnassignIntervenant(_ context.Context, id primitive.ObjectID) error {
	mission, ok := m.live[id]
	if !ok {
		return models.ErrNotFound
	}
	mission.IntervenantID = nil
	mission.UpdatedAt = time.Now()
	m.live[id] = mission
	return nil
}

func (m *mockMissionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.live[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.live, id)
	return nil
}

func (m *mockMissionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Mission, error) {
	mission, ok := m.live[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &mission, nil
}

func (m *mockMissionRepo) GetAll(_ context.Context) ([]models.Mission, error) {
	out := []models.Mission{}
	for _, mission := range m.live {
		out = append(out, mission)
	}
	return out, nil
}

func (m *mockMissionRepo) Filter(_ context.Context, filter bson.M) ([]models.Mission, error) {
	out := []models.Mission{}
	for _, mission := range m.live {
		if status, ok := filter["status"]; ok && mission.Status != status.(models.MissionStatus) {
			continue
		}
		if clientID, ok := filter["client_id"]; ok && mission.ClientID != clientID.(string) {
			continue
		}
		out = append(out, mission)
	}
	return out, nil
}

func (m *mockMissionRepo) FindCompletedInWindow(_ context.Context, from, to time.Time) ([]models.Mission, error) {
	if m.failSelect != nil {
		return nil, m.failSelect
	}
	out := []models.Mission{}
	for _, mission := range m.live {
		if mission.Status != models.StatusCompleted {
			continue
		}
		if mission.Date.Before(from) || mission.Date.After(to) {
			continue
		}
		out = append(out, mission)
	}
	return out, nil
}

func (m *mockMissionRepo) UpsertArchived(_ context.Context, missions []models.Mission) error {
	if m.failUpsert != nil {
		return m.failUpsert
	}
	for _, mission := range missions {
		m.archived[mission.ID] = mission
	}
	return nil
}

func (m *mockMissionRepo) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) error {
	if m.failDelete != nil {
		return m.failDelete
	}
	for _, id := range ids {
		delete(m.live, id)
	}
	return nil
}

func (m *mockMissionRepo) FindArchived(_ context.Context, filter bson.M) ([]models.Mission, error) {
	out := []models.Mission{}
	for _, mission := range m.archived {
		if window, ok := filter["date"].(bson.M); ok {
			from := window["$gte"].(time.Time)
			to := window["$lte"].(time.Time)
			if mission.Date.Before(from) || mission.Date.After(to) {
				continue
			}
		}
		if clientID, ok := filter["client_id"]; ok && mission.ClientID != clientID.(string) {
			continue
		}
		if intervenantID, ok := filter["intervenant_id"]; ok {
			if mission.IntervenantID == nil || *mission.IntervenantID != intervenantID.(string) {
				continue
			}
		}
		if service, ok := filter["service"]; ok && mission.Service != service.(models.ServiceType) {
			continue
		}
		if method, ok := filter["payment_method"]; ok && mission.PaymentMethod != method.(models.PaymentMethod) {
			continue
		}
		out = append(out, mission)
	}
	return out, nil
}

func (m *mockMissionRepo) CountByStatus(_ context.Context, status models.MissionStatus) (int64, error) {
	var count int64
	for _, mission := range m.live {
		if mission.Status == status {
			count++
		}
	}
	return count, nil
}

// mockClientRepo holds clients by id for notification lookups.
type mockClientRepo struct {
	clients map[primitive.ObjectID]models.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: map[primitive.ObjectID]models.Client{}}
}

func (m *mockClientRepo) Create(_ context.Context, client *models.Client) error {
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now()
	m.clients[client.ID] = *client
	return nil
}

func (m *mockClientRepo) Update(_ context.Context, client *models.Client) error {
	if _, ok := m.clients[client.ID]; !ok {
		return models.ErrNotFound
	}
	m.clients[client.ID] = *client
	return nil
}

func (m *mockClientRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ClientStatus) error {
	client, ok := m.clients[id]
	if !ok {
		return models.ErrNotFound
	}
	client.Status = status
	m.clients[id] = client
	return nil
}

func (m *mockClientRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.clients[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &client, nil
}

func (m *mockClientRepo) GetAll(_ context.Context) ([]models.Client, error) {
	out := []models.Client{}
	for _, client := range m.clients {
		out = append(out, client)
	}
	return out, nil
}

func (m *mockClientRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.clients)), nil
}

// mockNotifier records status emails and can be told to fail.
type mockNotifier struct {
	sent []string
	err  error
}

func (m *mockNotifier) SendStatusUpdate(email, name, status string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, status)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestComputeAmount(t *testing.T) {
	cases := []struct {
		name    string
		hours   int
		minutes int
		rate    *float64
		want    *float64
	}{
		{"one hour thirty at 20", 1, 30, floatPtr(20), floatPtr(30)},
		{"zero duration", 0, 0, floatPtr(25), floatPtr(0)},
		{"minutes only", 0, 45, floatPtr(20), floatPtr(15)},
		{"rounding", 1, 20, floatPtr(19.99), floatPtr(26.65)},
		{"no rate", 2, 15, nil, nil},
	}

	for _, tc := range cases {
		got := ComputeAmount(tc.hours, tc.minutes, tc.rate)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("%s: ComputeAmount = %v, want %v", tc.name, got, tc.want)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("%s: ComputeAmount = %v, want %v", tc.name, *got, *tc.want)
		}
	}
}

func TestCreateMission_ComputesAmount(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewMissionService(repo, newMockClientRepo(), &mockNotifier{})

	mission := &models.Mission{
		ClientID:   primitive.NewObjectID().Hex(),
		Service:    models.ServiceCleaning,
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Hours:      1,
		Minutes:    30,
		HourlyRate: floatPtr(20),
	}
	if err := svc.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if mission.Status != models.StatusPending {
		t.Errorf("new mission status = %q, want %q", mission.Status, models.StatusPending)
	}
	if mission.Amount == nil || *mission.Amount != 30 {
		t.Errorf("new mission amount = %v, want 30.00", mission.Amount)
	}
	if mission.ID.IsZero() {
		t.Error("new mission has no generated id")
	}
}

func TestCreateMission_MissingRequiredFields(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewMissionService(repo, newMockClientRepo(), &mockNotifier{})

	mission := &models.Mission{
		Service: models.ServiceIroning,
		Date:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	err := svc.Create(context.Background(), mission)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("Create without client = %v, want ErrValidation", err)
	}
	if len(repo.live) != 0 {
		t.Error("invalid mission was stored")
	}
}

func TestUpdateStatus_AnyTransitionAllowed(t *testing.T) {
	repo := newMockMissionRepo()
	clients := newMockClientRepo()
	client := &models.Client{Name: "Jeanne", Email: "jeanne@example.fr"}
	clients.Create(context.Background(), client)

	svc := NewMissionService(repo, clients, &mockNotifier{})

	mission := &models.Mission{
		ClientID: client.ID.Hex(),
		Service:  models.ServiceShopping,
		Date:     time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for _, status := range []models.MissionStatus{models.StatusCancelled, models.StatusInProgress} {
		if err := svc.UpdateStatus(context.Background(), mission.ID, status); err != nil {
			t.Fatalf("UpdateStatus(%s) returned error: %v", status, err)
		}
	}

	stored, err := repo.GetByID(context.Background(), mission.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.Status != models.StatusInProgress {
		t.Errorf("final status = %q, want %q", stored.Status, models.StatusInProgress)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewMissionService(repo, newMockClientRepo(), &mockNotifier{})

	err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), "vanished")
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("UpdateStatus with unknown status = %v, want ErrValidation", err)
	}
}

func TestUpdateStatus_NotifierFailureIsNonFatal(t *testing.T) {
	repo := newMockMissionRepo()
	clients := newMockClientRepo()
	client := &models.Client{Name: "Paul", Email: "paul@example.fr"}
	clients.Create(context.Background(), client)

	notifier := &mockNotifier{err: errors.New("smtp down")}
	svc := NewMissionService(repo, clients, notifier)

	mission := &models.Mission{
		ClientID: client.ID.Hex(),
		Service:  models.ServiceMealHelp,
		Date:     time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), mission.ID, models.StatusConfirmed); err != nil {
		t.Fatalf("UpdateStatus returned error despite notifier being non-fatal: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), mission.ID)
	if stored.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want %q", stored.Status, models.StatusConfirmed)
	}
}

func TestUpdateBilling_Recomputes(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewMissionService(repo, newMockClientRepo(), &mockNotifier{})

	mission := &models.Mission{
		ClientID:   primitive.NewObjectID().Hex(),
		Service:    models.ServiceCleaning,
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Hours:      1,
		Minutes:    0,
		HourlyRate: floatPtr(20),
	}
	if err := svc.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.UpdateBilling(context.Background(), mission.ID, 2, 30, floatPtr(24)); err != nil {
		t.Fatalf("UpdateBilling returned error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), mission.ID)
	if stored.Amount == nil || *stored.Amount != 60 {
		t.Errorf("amount after billing update = %v, want 60.00", stored.Amount)
	}
}

func TestUpdateBilling_RejectsInvalidMinutes(t *testing.T) {
	svc := NewMissionService(newMockMissionRepo(), newMockClientRepo(), &mockNotifier{})

	err := svc.UpdateBilling(context.Background(), primitive.NewObjectID(), 1, 60, floatPtr(20))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("UpdateBilling with minutes=60 = %v, want ErrValidation", err)
	}
}

func TestEdit_DoesNotRecomputeAmount(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewMissionService(repo, newMockClientRepo(), &mockNotifier{})

	mission := &models.Mission{
		ClientID:   primitive.NewObjectID().Hex(),
		Service:    models.ServiceCleaning,
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Hours:      1,
		HourlyRate: floatPtr(20),
	}
	if err := svc.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	hours := 5
	if err := svc.Edit(context.Background(), mission.ID, models.MissionPatch{Hours: &hours}); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), mission.ID)
	if stored.Hours != 5 {
		t.Errorf("hours = %d, want 5", stored.Hours)
	}
	if stored.Amount == nil || *stored.Amount != 20 {
		t.Errorf("amount = %v, want untouched 20.00", stored.Amount)
	}
}

func TestEdit_EmptyIntervenantUnassignsWorker(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewMissionService(repo, newMockClientRepo(), &mockNotifier{})

	mission := &models.Mission{
		ClientID:      primitive.NewObjectID().Hex(),
		IntervenantID: strPtr(primitive.NewObjectID().Hex()),
		Service:       models.ServiceIroning,
		Date:          time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Hours:         2,
	}
	if err := svc.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	description := "sans intervenant cette semaine"
	patch := models.MissionPatch{
		IntervenantID: strPtr(""),
		Description:   &description,
	}
	if err := svc.Edit(context.Background(), mission.ID, patch); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), mission.ID)
	if stored.IntervenantID != nil {
		t.Errorf("intervenant_id = %q, want cleared", *stored.IntervenantID)
	}
	if stored.Description != description {
		t.Errorf("description = %q, want %q", stored.Description, description)
	}
}

func TestEdit_ReassignsIntervenant(t *testing.T) {
	repo := newMockMissionRepo()
	svc := NewMissionService(repo, newMockClientRepo(), &mockNotifier{})

	mission := &models.Mission{
		ClientID: primitive.NewObjectID().Hex(),
		Service:  models.ServiceShopping,
		Date:     time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	workerID := primitive.NewObjectID().Hex()
	if err := svc.Edit(context.Background(), mission.ID, models.MissionPatch{IntervenantID: &workerID}); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), mission.ID)
	if stored.IntervenantID == nil || *stored.IntervenantID != workerID {
		t.Errorf("intervenant_id = %v, want %q", stored.IntervenantID, workerID)
	}
}

func TestDeleteMission_NotFound(t *testing.T) {
	svc := NewMissionService(newMockMissionRepo(), newMockClientRepo(), &mockNotifier{})

	err := svc.Delete(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Delete of absent mission = %v, want ErrNotFound", err)
	}
}
