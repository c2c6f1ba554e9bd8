package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"floorplan/internal/domain"
	"floorplan/internal/project"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoLibrary implements Library for MongoDB. Each published plan is
// one document in the floorplan_documents collection with the project
// file stored as a JSON string (the file is the interchange format,
// BSON round-tripping would lose float precision guarantees).
type mongoLibrary struct {
	client *mongo.Client
	dbName string
}

type mongoDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Author    string    `bson:"author"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newMongoLibrary(conn *domain.LibraryConnection, password string) (*mongoLibrary, error) {
	uri := buildMongoURI(conn, password)

	dbName := conn.Database
	if dbName == "" {
		dbName = "floorplan"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &mongoLibrary{client: client, dbName: dbName}, nil
}

// buildMongoURI assembles the connection URI. A host that is already a
// full mongodb:// or mongodb+srv:// string (Atlas) is used directly,
// with the common <password> placeholder substituted.
func buildMongoURI(conn *domain.LibraryConnection, password string) string {
	if strings.HasPrefix(conn.Host, "mongodb+srv://") || strings.HasPrefix(conn.Host, "mongodb://") {
		uri := conn.Host
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
		return uri
	}

	port := conn.Port
	if port == 0 {
		port = 27017
	}
	var uri string
	if conn.Username != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", conn.Username, password, conn.Host, port)
	} else {
		uri = fmt.Sprintf("mongodb://%s:%d", conn.Host, port)
	}

	// extraJSON carries authSource, replicaSet, etc.
	if conn.ExtraJSON != "" && conn.ExtraJSON != "{}" {
		var extras map[string]string
		if json.Unmarshal([]byte(conn.ExtraJSON), &extras) == nil {
			params := []string{}
			for k, v := range extras {
				params = append(params, k+"="+v)
			}
			if len(params) > 0 {
				uri += "/?" + strings.Join(params, "&")
			}
		}
	}
	return uri
}

func (l *mongoLibrary) collection() *mongo.Collection {
	return l.client.Database(l.dbName).Collection(libraryTable)
}

func (l *mongoLibrary) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return l.client.Ping(ctx, nil)
}

func (l *mongoLibrary) List(ctx context.Context) ([]PlanSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.D{{Key: "data", Value: 0}})
	cur, err := l.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	var out []PlanSummary
	for cur.Next(ctx) {
		var d mongoDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, PlanSummary{
			ID:        d.ID,
			Name:      d.Name,
			Author:    d.Author,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return out, cur.Err()
}

func (l *mongoLibrary) Publish(ctx context.Context, id string, doc *project.File) error {
	data, err := project.Encode(doc)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	d := mongoDoc{
		ID:        id,
		Name:      doc.Metadata.Name,
		Author:    doc.Metadata.Author,
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = l.collection().ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("publish document: %w", err)
	}
	return nil
}

func (l *mongoLibrary) Fetch(ctx context.Context, id string) (*project.File, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var d mongoDoc
	err := l.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("document %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	res, err := project.Decode([]byte(d.Data))
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return res.File, nil
}

func (l *mongoLibrary) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := l.collection().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

func (l *mongoLibrary) Close() error {
	return l.client.Disconnect(context.Background())
}
