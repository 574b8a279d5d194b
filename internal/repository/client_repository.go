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

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ClientStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	GetAll(ctx context.Context) ([]models.Client, error)
	Count(ctx context.Context) (int64, error)
}

type clientRepository struct {
	collection *mongo.Collection
}

func NewClientRepository(db *mongo.Database) ClientRepository {
	return &clientRepository{collection: db.Collection("clients")}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, client)
	return err
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	result, err := r.collection.UpdateByID(ctx, client.ID, bson.M{"$set": bson.M{
		"name":        client.Name,
		"email":       client.Email,
		"phone":       client.Phone,
		"address":     client.Address,
		"preferences": client.Preferences,
		"home_area":   client.HomeArea,
		"room_count":  client.RoomCount,
		"services":    client.Services,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *clientRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ClientStatus) error {
	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clients []models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
