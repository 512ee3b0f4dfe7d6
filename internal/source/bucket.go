package source

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"taxengine/internal/logger"
	"taxengine/pkg/services"
)

// BucketConfig locates documents in an S3-compatible bucket.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// Bucket reads every .json object under a prefix.
type Bucket struct {
	client *minio.Client
	bucket string
	prefix string
	log    zerolog.Logger
}

// NewBucket connects to the endpoint and checks that the bucket exists.
func NewBucket(ctx context.Context, cfg BucketConfig) (*Bucket, error) {
	const op = "NewBucket"

	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, NewSourceError(op, ErrNotConfigured, "endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, NewSourceError(op, err, cfg.Endpoint)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, NewSourceError(op, err, cfg.Bucket)
	}
	if !exists {
		return nil, NewSourceError(op, ErrLocationNotFound, cfg.Bucket)
	}

	return &Bucket{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    logger.WithComponent("source-bucket"),
	}, nil
}

// Describe implements services.DocumentSource.
func (b *Bucket) Describe() string {
	return fmt.Sprintf("s3://%s", path.Join(b.bucket, b.prefix))
}

// Load returns the JSON objects under the prefix ordered by key. Objects that
// cannot be read are logged and skipped.
func (b *Bucket) Load(ctx context.Context) ([]services.RawDocument, error) {
	const op = "Load"

	var objects []minio.ObjectInfo
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    b.prefix,
		Recursive: true,
	}) {
		objects = append(objects, obj)
	}

	keys, err := jsonKeys(objects)
	if err != nil {
		return nil, NewSourceError(op, ErrListFailed, err.Error())
	}

	docs := make([]services.RawDocument, 0, len(keys))
	for _, key := range keys {
		data, err := b.get(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, WrapSourceError(op, ctx.Err(), b.Describe())
			}
			b.log.Warn().
				Err(err).
				Str("key", key).
				Msg("Failed to read object, skipping")
			continue
		}
		docs = append(docs, services.RawDocument{Name: path.Base(key), Data: data})
	}

	b.log.Info().
		Str("bucket", b.bucket).
		Str("prefix", b.prefix).
		Int("objects", len(keys)).
		Int("loaded", len(docs)).
		Msg("Documents loaded from bucket")

	return docs, nil
}

func (b *Bucket) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data := new(bytes.Buffer)
	if _, err := data.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data.Bytes(), nil
}

// jsonKeys filters a listing down to sorted .json object keys. A listing
// error fails the whole listing.
func jsonKeys(objects []minio.ObjectInfo) ([]string, error) {
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.HasSuffix(obj.Key, "/") || !strings.EqualFold(path.Ext(obj.Key), ".json") {
			continue
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}
