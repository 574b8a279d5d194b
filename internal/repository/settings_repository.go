package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pantoufles-app/internal/models"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

type settingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) SettingsRepository {
	return &settingsRepository{collection: db.Collection("settings")}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.collection.FindOne(ctx, bson.M{"_id": models.SettingsKey}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return &models.Settings{ID: models.SettingsKey}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save upserts the singleton settings document.
func (r *settingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsKey
	settings.UpdatedAt = time.Now()

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": models.SettingsKey},
		settings,
		options.Replace().SetUpsert(true),
	)
	return err
}
