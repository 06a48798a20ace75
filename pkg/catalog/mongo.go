package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	serrors "github.com/matzehuels/setlist/pkg/errors"
)

// Mongo collection names read by MongoSource.
const (
	MongoCollectionItems = "collection_items"
	MongoCollectionUsers = "users"
)

// MongoConfig locates the backend's database.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration // connect timeout; 0 uses DefaultTimeout
}

// MongoSource reads collections straight from the backend's MongoDB,
// bypassing the HTTP API. Pages are ordered by concert id so that
// paging is stable.
type MongoSource struct {
	client *mongo.Client
	items  *mongo.Collection
	users  *mongo.Collection
}

// collectionDoc is one concert in one user's collection.
type collectionDoc struct {
	UserID int64 `bson:"userId"`
	Item   `bson:",inline"`
}

// NewMongoSource connects to cfg.URI and verifies the connection.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if cfg.URI == "" {
		return nil, serrors.New(serrors.ErrCodeInvalidConfig, "mongo URI is required")
	}
	if cfg.Database == "" {
		return nil, serrors.New(serrors.ErrCodeInvalidConfig, "mongo database is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, serrors.Wrap(serrors.ErrCodeNetwork, err, "ping mongo")
	}
	return NewMongoSourceFromDatabase(client.Database(cfg.Database)), nil
}

// NewMongoSourceFromDatabase wraps an existing database handle.
func NewMongoSourceFromDatabase(db *mongo.Database) *MongoSource {
	return &MongoSource{
		client: db.Client(),
		items:  db.Collection(MongoCollectionItems),
		users:  db.Collection(MongoCollectionUsers),
	}
}

// Collection returns one page of the user's collection.
func (s *MongoSource) Collection(ctx context.Context, userID string, page, size int) (*Page, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	page, size = normalizePaging(page, size)
	filter := bson.D{{Key: "userId", Value: uid}}

	total, err := s.items.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: count collection: %v", ErrNetwork, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "concertId", Value: 1}}).
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size))
	cur, err := s.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find collection: %v", ErrNetwork, err)
	}
	var docs []collectionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: read collection: %v", ErrNetwork, err)
	}

	items := make([]Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.Item)
	}
	return NewPage(items, page, size, total), nil
}

// User returns the user's profile.
func (s *MongoSource) User(ctx context.Context, userID string) (*User, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	var u User
	err = s.users.FindOne(ctx, bson.D{{Key: "userId", Value: uid}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, serrors.Wrap(serrors.ErrCodeUserNotFound, ErrNotFound, "user %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", ErrNetwork, err)
	}
	return &u, nil
}

// Close disconnects from MongoDB.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func parseUserID(userID string) (int64, error) {
	if err := serrors.ValidateID("user", userID); err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
}

var (
	_ Source = (*Client)(nil)
	_ Source = (*MongoSource)(nil)
)
