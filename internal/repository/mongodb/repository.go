package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/model"
)

type postDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Author      string             `bson:"author"`
	Location    string             `bson:"location"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Date        string             `bson:"date"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type mongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *logrus.Logger
}

// New connects to MongoDB and verifies the connection with a ping.
func New(conf config.Mongo, log *logrus.Logger) (*mongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	log.WithFields(logrus.Fields{"database": conf.DB, "collection": conf.Collection}).Info("connected to mongodb")

	return &mongoRepository{
		client:     client,
		collection: client.Database(conf.DB).Collection(conf.Collection),
		log:        log,
	}, nil
}

func (mr *mongoRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	doc := postDocument{
		ID:          primitive.NewObjectID(),
		Author:      post.Author,
		Location:    post.Location,
		Description: post.Description,
		Image:       post.Image,
		Date:        post.Date,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := mr.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	mr.log.WithField("id", doc.ID.Hex()).Debug("post inserted")
	return doc.toModel(), nil
}

func (mr *mongoRepository) List(ctx context.Context) ([]*model.Post, error) {
	cursor, err := mr.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	posts := make([]*model.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

// Close disconnects the client.
func (mr *mongoRepository) Close(ctx context.Context) error {
	return mr.client.Disconnect(ctx)
}

func (d postDocument) toModel() *model.Post {
	return &model.Post{
		ID:          d.ID.Hex(),
		Author:      d.Author,
		Location:    d.Location,
		Description: d.Description,
		Image:       d.Image,
		Date:        d.Date,
		CreatedAt:   d.CreatedAt,
	}
}
