package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mtb2597/repo-intel-agent/pkg/extract"
)

// Archive persists extracted sets so a long-lived server can restore
// its table across restarts. The in-memory Store stays authoritative;
// the archive is written through after each delivery.
type Archive interface {
	// Save upserts one set, keyed by repository name.
	Save(ctx context.Context, set *extract.Set) error
	// LoadAll returns every archived set.
	LoadAll(ctx context.Context) ([]*extract.Set, error)
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// MongoArchive stores sets in a MongoDB collection, one document per
// repository.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoArchive connects to MongoDB and returns an archive backed by
// the "repos" collection of the given database.
func NewMongoArchive(ctx context.Context, uri, database string) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoArchive{
		client: client,
		coll:   client.Database(database).Collection("repos"),
	}, nil
}

// Save upserts the set under its repository name.
func (a *MongoArchive) Save(ctx context.Context, set *extract.Set) error {
	doc := archivedSet{
		Repo:         set.Repo,
		Dependencies: set.Dependencies,
		Success:      set.Success,
		Reason:       set.Reason,
		Toolchain:    set.Toolchain,
		ScannedAt:    set.ScannedAt,
	}
	_, err := a.coll.ReplaceOne(ctx,
		bson.M{"repo": set.Repo},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("archive %s: %w", set.Repo, err)
	}
	return nil
}

// LoadAll returns every archived set.
func (a *MongoArchive) LoadAll(ctx context.Context) ([]*extract.Set, error) {
	cur, err := a.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}
	defer cur.Close(ctx)

	var sets []*extract.Set
	for cur.Next(ctx) {
		var doc archivedSet
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode archived set: %w", err)
		}
		sets = append(sets, &extract.Set{
			Repo:         doc.Repo,
			Dependencies: doc.Dependencies,
			Success:      doc.Success,
			Reason:       doc.Reason,
			Toolchain:    doc.Toolchain,
			ScannedAt:    doc.ScannedAt,
		})
	}
	return sets, cur.Err()
}

// Close disconnects the client.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

type archivedSet struct {
	Repo         string           `bson:"repo"`
	Dependencies []extract.Record `bson:"dependencies"`
	Success      bool             `bson:"success"`
	Reason       string           `bson:"reason,omitempty"`
	Toolchain    string           `bson:"toolchain,omitempty"`
	ScannedAt    time.Time        `bson:"scanned_at"`
}

var _ Archive = (*MongoArchive)(nil)
