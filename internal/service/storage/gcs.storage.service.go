package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	types "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/logger"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSConfig struct {
	Bucket    string
	ProjectID string
	AccessKey string
	SecretKey string
	Location  string
	Prefix    string
	URLExpiry time.Duration
}

// GCSConfigFromEnv reads the CS_* variables.
func GCSConfigFromEnv(bucket string) GCSConfig {
	return GCSConfig{
		Bucket:    bucket,
		ProjectID: helper.GetEnv("CS_PROJECT_ID"),
		AccessKey: helper.GetEnv("CS_ACCESS_KEY"),
		SecretKey: strings.ReplaceAll(helper.GetEnv("CS_SECRET_KEY"), "\\n", "\n"),
		Location:  helper.GetEnvOr("CS_LOCATION", "asia-southeast2"),
		Prefix:    "items",
		URLExpiry: 7 * 24 * time.Hour,
	}
}

// GCS stores photos in a Google Cloud Storage bucket and links them with
// signed URLs.
type GCS struct {
	client *storage.Client
	config GCSConfig
}

func NewGCS(ctx context.Context, config GCSConfig) (*GCS, error) {
	credentials, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   config.ProjectID,
		"client_email": config.AccessKey,
		"private_key":  config.SecretKey,
	})
	if err != nil {
		return nil, err
	}

	var client *storage.Client
	for retries := 0; retries < 5; retries++ {
		client, err = storage.NewClient(ctx, option.WithCredentialsJSON(credentials))
		if err == nil {
			break
		}
		logger.Warning.Printf("retry %d: failed to connect to storage: %v", retries+1, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage after retries: %w", err)
	}

	g := &GCS{client: client, config: config}
	if err := g.ensureBucket(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return g, nil
}

func (g *GCS) ensureBucket(ctx context.Context) error {
	bucket := g.client.Bucket(g.config.Bucket)
	if _, err := bucket.Attrs(ctx); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("check bucket %s: %w", g.config.Bucket, err)
	}
	if err := bucket.Create(ctx, g.config.ProjectID, &storage.BucketAttrs{Location: g.config.Location}); err != nil {
		return fmt.Errorf("create bucket %s: %w", g.config.Bucket, err)
	}
	return nil
}

func (g *GCS) path(name string) string {
	if g.config.Prefix == "" {
		return name
	}
	return g.config.Prefix + "/" + name
}

func (g *GCS) Save(ctx context.Context, file *types.BufferedFile) (*StoredFile, error) {
	if len(file.Buffer) == 0 {
		return nil, ErrEmptyFile
	}
	name := objectName(file)

	writer := g.client.Bucket(g.config.Bucket).Object(g.path(name)).NewWriter(ctx)
	writer.ContentType = file.MimeType
	writer.Metadata = map[string]string{"original-name": file.OriginalName}
	if _, err := writer.Write(file.Buffer); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	url, err := g.URL(name)
	if err != nil {
		return nil, err
	}
	return stored(file, name, url), nil
}

// URL signs a read link for a stored object.
func (g *GCS) URL(name string) (string, error) {
	url, err := g.client.Bucket(g.config.Bucket).SignedURL(g.path(name), &storage.SignedURLOptions{
		GoogleAccessID: g.config.AccessKey,
		PrivateKey:     []byte(g.config.SecretKey),
		Method:         "GET",
		Expires:        time.Now().Add(g.config.URLExpiry),
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", name, err)
	}
	return url, nil
}

func (g *GCS) Delete(ctx context.Context, fileName string) error {
	err := g.client.Bucket(g.config.Bucket).Object(g.path(fileName)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) Close() error {
	return g.client.Close()
}
