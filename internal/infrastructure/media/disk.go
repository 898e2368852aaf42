package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/ports"
)

type DiskConfig struct {
	Dir       string
	PublicURL string
}

// DiskStore writes photos to a local directory that the router serves
// statically. References are PublicURL/<uuid><ext>.
type DiskStore struct {
	dir       string
	publicURL string
	log       zerolog.Logger
}

func NewDiskStore(cfg DiskConfig, log zerolog.Logger) (*DiskStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("disk media store: empty directory")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk media store: %w", err)
	}
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &DiskStore{dir: cfg.Dir, publicURL: publicURL, log: log}, nil
}

func (s *DiskStore) Name() string { return BackendDisk }

// Dir is the directory served at the public URL.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Put(ctx context.Context, photo ports.PhotoUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + extension(photo.Filename, photo.ContentType)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, photo.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return s.publicURL + "/" + name, nil
}

// Delete removes the file named by the last segment of ref. Missing files
// are not an error.
func (s *DiskStore) Delete(_ context.Context, ref string) error {
	name := path.Base(strings.TrimSpace(ref))
	if name == "" || name == "." || name == "/" || name == ".." {
		s.log.Warn().Str("ref", ref).Msg("ignoring malformed disk reference")
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	if err != nil {
		s.log.Debug().Str("ref", ref).Msg("photo already absent")
	}
	return nil
}
