package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ErrListNotFound is returned when an allow-list object does not exist.
var ErrListNotFound = errors.New("admin allow-list not found")

// S3GetObjectAPI is the part of the S3 client the allow-list loader needs.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Loader struct {
	client S3GetObjectAPI
	bucket string
	logger zerolog.Logger
}

// NewS3Loader returns a Loader that reads allow-list objects from bucket.
func NewS3Loader(client S3GetObjectAPI, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "admin-list-s3").Str("bucket", bucket).Logger(),
	}
}

func (l *s3Loader) Load(ctx context.Context, key string) (EmailSet, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("s3://%s/%s: %w", l.bucket, key, ErrListNotFound)
		}
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", l.bucket, key, err)
	}
	defer out.Body.Close()

	emails, err := readEmails(ctx, out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", l.bucket, key, err)
	}

	l.logger.Info().Str("key", key).Int("emails", emails.Size()).Msg("admin allow-list fetched")
	return emails, nil
}

// fallbackLoader reads a fixed remote key first and falls back to the
// location passed to Load.
type fallbackLoader struct {
	remote    Loader
	remoteKey string
	local     Loader
	logger    zerolog.Logger
}

// NewFallbackLoader returns a Loader that tries remote at remoteKey and, on
// any failure, local at the location given to Load. A nil remote or empty
// remoteKey skips straight to local. An empty location yields an empty set.
func NewFallbackLoader(remote Loader, remoteKey string, local Loader, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		remote:    remote,
		remoteKey: remoteKey,
		local:     local,
		logger:    logger.With().Str("component", "admin-list").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, location string) (EmailSet, error) {
	if l.remote != nil && l.remoteKey != "" {
		emails, err := l.remote.Load(ctx, l.remoteKey)
		if err == nil {
			return emails, nil
		}
		event := l.logger.Warn()
		if errors.Is(err, ErrListNotFound) {
			event = l.logger.Info()
		}
		event.Err(err).Str("remote_key", l.remoteKey).Msg("remote admin allow-list unavailable, using local copy")
	}

	if location == "" {
		return NewEmailSet(), nil
	}
	return l.local.Load(ctx, location)
}
