package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// photosPrefix is where post and profile images live inside the bucket.
const photosPrefix = "photos"

// StorageService wraps the Firebase Storage bucket that holds uploaded
// images. Uploads return publicly resolvable URLs; deletion works back from
// a URL to the object path.
type StorageService struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewStorageService(ctx context.Context, localFilePath string) (*StorageService, error) {
	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucketName == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET environment variable is not set")
	}

	var opt option.ClientOption
	if encodedCreds := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase key file %s not found and FIREBASE_SERVICE_ACCOUNT_JSON is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default bucket: %w", err)
	}

	return &StorageService{bucket: bucket, bucketName: bucketName}, nil
}

// Upload writes the object under the photos prefix and returns its public
// URL.
func (s *StorageService) Upload(ctx context.Context, fileName string, r io.Reader, contentType string) (string, error) {
	objectPath := fmt.Sprintf("%s/%s", photosPrefix, fileName)

	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", objectPath, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectPath), nil
}

// Delete removes the object a public URL points at. URLs that do not map
// into the bucket are rejected.
func (s *StorageService) Delete(ctx context.Context, url string) error {
	objectPath := s.objectPath(url)
	if objectPath == "" {
		return fmt.Errorf("url %q does not resolve to a stored object: %w", url, ErrInvalidOperation)
	}

	if err := s.bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}
	return nil
}

func (s *StorageService) objectPath(url string) string {
	if _, after, ok := strings.Cut(url, "/"+s.bucketName+"/"); ok {
		return after
	}
	// Legacy URLs only carry the photos prefix.
	if _, after, ok := strings.Cut(url, "/"+photosPrefix+"/"); ok {
		return photosPrefix + "/" + after
	}
	return ""
}
