package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pantoufles-app/internal/models"
)

type MissionRepository interface {
	Create(ctx context.Context, mission *models.Mission) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.MissionStatus) error
	UnassignIntervenant(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mission, error)
	GetAll(ctx context.Context) ([]models.Mission, error)
	Filter(ctx context.Context, filter bson.M) ([]models.Mission, error)
	FindCompletedInWindow(ctx context.Context, from, to time.Time) ([]models.Mission, error)
	UpsertArchived(ctx context.Context, missions []models.Mission) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
	FindArchived(ctx context.Context, filter bson.M) ([]models.Mission, error)
	CountByStatus(ctx context.Context, status models.MissionStatus) (int64, error)
}

type missionRepository struct {
	live     *mongo.Collection
	archived *mongo.Collection
}

func NewMissionRepository(db *mongo.Database) MissionRepository {
	return &missionRepository{
		live:     db.Collection("missions"),
		archived: db.Collection("missions_archived"),
	}
}

func (r *missionRepository) Create(ctx context.Context, mission *models.Mission) error {
	mission.ID = primitive.NewObjectID()
	mission.CreatedAt = time.Now()
	mission.UpdatedAt = time.Now()
	_, err := r.live.InsertOne(ctx, mission)
	return err
}

func (r *missionRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := r.live.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *missionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.MissionStatus) error {
	return r.UpdateFields(ctx, id, bson.M{"status": status})
}

// UnassignIntervenant removes the worker from the mission entirely instead of
// leaving an empty value behind.
func (r *missionRepository) UnassignIntervenant(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.live.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"intervenant_id": ""},
		"$set":   bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *missionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.live.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *missionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mission, error) {
	var mission models.Mission
	err := r.live.FindOne(ctx, bson.M{"_id": id}).Decode(&mission)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *missionRepository) GetAll(ctx context.Context) ([]models.Mission, error) {
	return r.find(ctx, r.live, bson.M{}, options.Find().SetSort(bson.M{"date": -1}))
}

func (r *missionRepository) Filter(ctx context.Context, filter bson.M) ([]models.Mission, error) {
	return r.find(ctx, r.live, filter, options.Find().SetSort(bson.M{"date": -1}))
}

func (r *missionRepository) FindCompletedInWindow(ctx context.Context, from, to time.Time) ([]models.Mission, error) {
	filter := bson.M{
		"status": models.StatusCompleted,
		"date": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
	return r.find(ctx, r.live, filter, options.Find())
}

// UpsertArchived copies missions into the cold-storage collection keyed by
// their live id. Re-running with the same rows overwrites them in place.
func (r *missionRepository) UpsertArchived(ctx context.Context, missions []models.Mission) error {
	if len(missions) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(missions))
	for _, mission := range missions {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": mission.ID}).
			SetReplacement(mission).
			SetUpsert(true))
	}

	_, err := r.archived.BulkWrite(ctx, writes)
	return err
}

func (r *missionRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.live.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (r *missionRepository) FindArchived(ctx context.Context, filter bson.M) ([]models.Mission, error) {
	return r.find(ctx, r.archived, filter, options.Find().SetSort(bson.M{"date": -1}))
}

func (r *missionRepository) CountByStatus(ctx context.Context, status models.MissionStatus) (int64, error) {
	return r.live.CountDocuments(ctx, bson.M{"status": status})
}

func (r *missionRepository) find(ctx context.Context, collection *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]models.Mission, error) {
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var missions []models.Mission
	if err := cursor.All(ctx, &missions); err != nil {
		return nil, err
	}
	if missions == nil {
		missions = []models.Mission{}
	}
	return missions, nil
}
