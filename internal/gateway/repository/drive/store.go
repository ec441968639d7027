// Package drive uploads rendered protocols to the remote file store.
// The rest of the system only sees the narrow capability interface, not
// the vendor SDK shape.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"riskprotocol/internal/protocol"
	"riskprotocol/internal/render"
)

// ErrUnauthenticated is returned when an upload is attempted without a
// prior sign-in.
var ErrUnauthenticated = errors.New("drive: sessão não autenticada")

// ErrUpload wraps any remote failure. Upload outcomes never touch the
// local record list.
var ErrUpload = errors.New("falha ao enviar protocolo")

// Store is the capability the service layer depends on.
type Store interface {
	IsAuthenticated() bool
	SignIn() error
	SignOut()
	Upload(ctx context.Context, rec *protocol.Record) error
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Folder    string
	UseSSL    bool
}

// S3Store implements Store over a MinIO/S3 endpoint. SignIn establishes
// the signed session; until then every upload fails with
// ErrUnauthenticated.
type S3Store struct {
	cfg S3Config

	mu      sync.Mutex
	client  *minio.Client
	ensured bool
}

func NewS3Store(cfg S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func (s *S3Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}

func (s *S3Store) SignIn() error {
	endpoint := strings.TrimSpace(s.cfg.Endpoint)
	if endpoint == "" {
		return fmt.Errorf("drive endpoint is required")
	}
	access := strings.TrimSpace(s.cfg.AccessKey)
	secret := strings.TrimSpace(s.cfg.SecretKey)
	if access == "" || secret == "" {
		return fmt.Errorf("drive access key and secret key are required")
	}
	if strings.TrimSpace(s.cfg.Bucket) == "" {
		return fmt.Errorf("drive bucket is required")
	}
	region := strings.TrimSpace(s.cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: s.cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return fmt.Errorf("init drive client: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.ensured = false
	s.mu.Unlock()
	return nil
}

func (s *S3Store) SignOut() {
	s.mu.Lock()
	s.client = nil
	s.ensured = false
	s.mu.Unlock()
}

// Upload renders the record to plain text and writes it into the fixed
// remote folder under a name derived from category and id.
func (s *S3Store) Upload(ctx context.Context, rec *protocol.Record) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return fmt.Errorf("%w: %v", ErrUpload, ErrUnauthenticated)
	}
	if err := s.ensureBucket(ctx, client); err != nil {
		return fmt.Errorf("%w: ensure bucket: %v", ErrUpload, err)
	}

	body := []byte(render.UploadText(rec))
	key := objectKey(s.cfg.Folder, FileName(rec))
	_, err := client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return nil
}

func (s *S3Store) ensureBucket(ctx context.Context, client *minio.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}
	exists, err := client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		region := strings.TrimSpace(s.cfg.Region)
		if err := client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return err
		}
	}
	s.ensured = true
	return nil
}

// FileName derives the upload name from the record's category and id,
// with non-alphanumeric characters replaced by a separator.
func FileName(rec *protocol.Record) string {
	return fmt.Sprintf("Protocolo_%s_%s.txt", render.SafeName(string(rec.Category)), rec.ID)
}

func objectKey(folder, name string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
