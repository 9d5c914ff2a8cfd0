package identity

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for local allow-list files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a file-based allow-list loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "admin-list-loader").Logger(),
	}
}

// Load reads the allow-list at filePath.
func (l *fileLoader) Load(ctx context.Context, filePath string) (EmailSet, error) {
	l.logger.Info().Str("file", filePath).Msg("loading admin allow-list")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open admin allow-list")
		return nil, fmt.Errorf("failed to open admin allow-list %s: %w", filePath, err)
	}
	defer file.Close()

	set, err := readEmails(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin allow-list %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("emails_loaded", set.Size()).
		Msg("admin allow-list loaded")

	return set, nil
}

// readEmails parses one email per line. Gzip input is detected by its magic
// bytes.
func readEmails(ctx context.Context, r io.Reader) (*Emails, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	set := NewEmailSet()
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		set.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}
