package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
	"github.com/homestay/rental-api/internal/pkg/metrics"
)

const sniffLen = 512

// MediaService validates uploaded photos and hands them to the configured
// MediaStore.
type MediaService struct {
	store    ports.MediaStore
	janitor  ports.PhotoJanitor
	maxBytes int64
	log      zerolog.Logger
}

func NewMediaService(store ports.MediaStore, janitor ports.PhotoJanitor, maxBytes int64, log zerolog.Logger) *MediaService {
	return &MediaService{store: store, janitor: janitor, maxBytes: maxBytes, log: log}
}

// Upload stores every photo and returns their references in input order. If
// any photo fails, the ones already stored are discarded and the error is
// returned.
func (s *MediaService) Upload(ctx context.Context, photos []ports.PhotoUpload) ([]string, error) {
	if len(photos) == 0 {
		return nil, fmt.Errorf("%w: no photos", domain.ErrInvalidInput)
	}

	refs := make([]string, 0, len(photos))
	for _, p := range photos {
		ref, err := s.put(ctx, p)
		if err != nil {
			metrics.MediaUploadsTotal.WithLabelValues(s.store.Name(), "error").Inc()
			if len(refs) > 0 {
				s.janitor.Discard(refs...)
			}
			return nil, err
		}
		metrics.MediaUploadsTotal.WithLabelValues(s.store.Name(), "success").Inc()
		refs = append(refs, ref)
	}

	s.log.Info().Str("backend", s.store.Name()).Int("count", len(refs)).Msg("photos uploaded")
	return refs, nil
}

func (s *MediaService) put(ctx context.Context, p ports.PhotoUpload) (string, error) {
	if s.maxBytes > 0 && p.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, p.Filename, s.maxBytes)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(p.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", p.Filename, err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s is %s", domain.ErrUnsupportedMedia, p.Filename, contentType)
	}

	p.ContentType = contentType
	p.Body = io.MultiReader(bytes.NewReader(head), p.Body)

	ref, err := s.store.Put(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("backend", s.store.Name()).Str("filename", p.Filename).Msg("photo upload failed")
		return "", fmt.Errorf("%w: %v", domain.ErrMediaUnavailable, err)
	}
	return ref, nil
}

// Remove deletes a single reference immediately. Unknown references succeed.
func (s *MediaService) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("%w: empty reference", domain.ErrInvalidInput)
	}

	if err := s.store.Delete(ctx, ref); err != nil {
		metrics.MediaDeletionsTotal.WithLabelValues("request", "error").Inc()
		s.log.Error().Err(err).Str("ref", ref).Msg("photo delete failed")
		return fmt.Errorf("%w: %v", domain.ErrMediaUnavailable, err)
	}

	metrics.MediaDeletionsTotal.WithLabelValues("request", "success").Inc()
	return nil
}
