package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps images in MongoDB. Objects are served by the API under
// urlPrefix + hex object id.
type GridFSStore struct {
	client    *mongo.Client
	bucket    *gridfs.Bucket
	urlPrefix string
}

func NewGridFSStore(ctx context.Context, uri, database, urlPrefix string) (*GridFSStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	bucket, err := gridfs.NewBucket(client.Database(database), options.GridFSBucket().SetName("listing_images"))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &GridFSStore{client: client, bucket: bucket, urlPrefix: urlPrefix}, nil
}

func (s *GridFSStore) Put(ctx context.Context, data []byte, contentType string) (Object, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	id, err := s.bucket.UploadFromStream(uuid.NewString()+".jpg", bytes.NewReader(data), opts)
	if err != nil {
		return Object{}, fmt.Errorf("gridfs upload: %w", err)
	}
	key := id.Hex()
	return Object{Key: key, URL: s.urlPrefix + key}, nil
}

func (s *GridFSStore) Delete(ctx context.Context, key string) error {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err := s.bucket.Delete(id); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return err
	}
	return nil
}

func (s *GridFSStore) Open(ctx context.Context, key string) ([]byte, string, error) {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return nil, "", ErrNotFound
	}
	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", err
	}
	return data, "image/jpeg", nil
}

func (s *GridFSStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
