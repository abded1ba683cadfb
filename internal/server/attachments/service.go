package attachments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	sc "github.com/notesafe/notesafe/internal/server/config"
	"github.com/notesafe/notesafe/internal/server/notes"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// presignValidity bounds how long an issued upload/download URL works.
const presignValidity = 15 * time.Minute

// Presigner issues short-lived URLs for direct object-storage access.
// The default implementation talks to S3; tests substitute a fake.
type Presigner interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// Service registers attachment metadata and brokers presigned URLs.
// Attachment routes sit behind the same authorization gate as notes, and
// every lookup is scoped through the owning note.
type Service struct {
	repo      Repository
	notesRepo notes.Repository
	config    *sc.Config
	presigner Presigner
}

func NewService(repo Repository, notesRepo notes.Repository, cfg *sc.Config) *Service {
	s := &Service{repo: repo, notesRepo: notesRepo, config: cfg}
	s.presigner = &s3Presigner{config: cfg}
	return s
}

// WithPresigner overrides the presigner. Used by tests.
func (s *Service) WithPresigner(p Presigner) *Service {
	s.presigner = p
	return s
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// RegisterUpload records attachment metadata for the note and returns the
// attachment plus a presigned PUT URL the client uploads to directly.
func (s *Service) RegisterUpload(ctx context.Context, userID, noteID, fileName, contentType string) (*Attachment, string, error) {

	// ownership check rides on the note lookup's user scoping
	if _, err := s.notesRepo.GetByID(ctx, userID, noteID); err != nil {
		return nil, "", err
	}

	att := &Attachment{
		ID:          uuid.NewString(),
		NoteID:      noteID,
		UserID:      userID,
		FileName:    fileName,
		ContentType: contentType,
		StorageKey:  randomStorageKey(),
	}

	att, err := s.repo.Create(ctx, att)
	if err != nil {
		return nil, "", fmt.Errorf("error creating attachment: %w", err)
	}

	url, err := s.presigner.PresignPut(ctx, att.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	return att, url, nil
}

// DownloadURL returns a presigned GET URL for an attachment the user owns.
func (s *Service) DownloadURL(ctx context.Context, userID, noteID, attID string) (string, error) {

	att, err := s.repo.GetByID(ctx, userID, noteID, attID)
	if err != nil {
		return "", err
	}

	url, err := s.presigner.PresignGet(ctx, att.StorageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	return url, nil
}

type s3Presigner struct {
	config *sc.Config
}

func (p *s3Presigner) client(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(p.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,
			p.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

func (p *s3Presigner) PresignPut(ctx context.Context, key string) (string, error) {

	presignClient, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := p.config.S3Bucket

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (p *s3Presigner) PresignGet(ctx context.Context, key string) (string, error) {

	presignClient, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := p.config.S3Bucket

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
