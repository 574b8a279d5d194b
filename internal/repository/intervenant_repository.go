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

type IntervenantRepository interface {
	Create(ctx context.Context, intervenant *models.Intervenant) error
	Update(ctx context.Context, intervenant *models.Intervenant) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Intervenant, error)
	GetAll(ctx context.Context) ([]models.Intervenant, error)
	Count(ctx context.Context) (int64, error)
}

type intervenantRepository struct {
	collection *mongo.Collection
}

func NewIntervenantRepository(db *mongo.Database) IntervenantRepository {
	return &intervenantRepository{collection: db.Collection("intervenants")}
}

func (r *intervenantRepository) Create(ctx context.Context, intervenant *models.Intervenant) error {
	intervenant.ID = primitive.NewObjectID()
	intervenant.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, intervenant)
	return err
}

func (r *intervenantRepository) Update(ctx context.Context, intervenant *models.Intervenant) error {
	result, err := r.collection.UpdateByID(ctx, intervenant.ID, bson.M{"$set": bson.M{
		"name":     intervenant.Name,
		"email":    intervenant.Email,
		"phone":    intervenant.Phone,
		"services": intervenant.Services,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *intervenantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *intervenantRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Intervenant, error) {
	var intervenant models.Intervenant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&intervenant)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &intervenant, nil
}

func (r *intervenantRepository) GetAll(ctx context.Context) ([]models.Intervenant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var intervenants []models.Intervenant
	if err := cursor.All(ctx, &intervenants); err != nil {
		return nil, err
	}
	if intervenants == nil {
		intervenants = []models.Intervenant{}
	}
	return intervenants, nil
}

func (r *intervenantRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
