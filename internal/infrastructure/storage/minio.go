package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-digest/pkg/config"
)

// MinIOClient turns stored audio object keys into presigned download links
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string // public base URL when MinIO sits behind a reverse proxy
	expiry    time.Duration
}

// NewMinIOClient creates a new MinIO client and checks the audio bucket exists
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("audio bucket %q does not exist", cfg.BucketName)
	}

	return &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		expiry:    cfg.PresignExpiry,
	}, nil
}

// AudioLink returns a presigned GET link for an audio reference. References that
// are already absolute URLs are returned unchanged.
func (m *MinIOClient) AudioLink(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) {
		return ref, nil
	}

	objectName := strings.TrimPrefix(ref, m.bucket+"/")
	u, err := m.client.PresignedGetObject(ctx, m.bucket, strings.TrimPrefix(objectName, "/"), m.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return rewriteHost(u, m.publicURL), nil
}

// rewriteHost swaps the internal endpoint for publicURL, keeping path and signature
func rewriteHost(u *url.URL, publicURL string) string {
	if publicURL == "" {
		return u.String()
	}
	return publicURL + u.RequestURI()
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Passthrough returns audio references unchanged. Used when object storage is disabled.
type Passthrough struct{}

func (Passthrough) AudioLink(_ context.Context, ref string) (string, error) {
	return ref, nil
}
