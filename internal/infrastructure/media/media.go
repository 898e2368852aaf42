// Package media provides the photo storage backends behind ports.MediaStore.
package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/ports"
)

const (
	BackendDisk       = "disk"
	BackendS3         = "s3"
	BackendCloudinary = "cloudinary"
)

// Config selects and configures a backend. Only the block matching Backend
// is read.
type Config struct {
	Backend    string
	Disk       DiskConfig
	S3         S3Config
	Cloudinary CloudinaryConfig
}

// New builds the MediaStore named by cfg.Backend.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (ports.MediaStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendDisk:
		return NewDiskStore(cfg.Disk, log)
	case BackendS3:
		return NewS3Store(ctx, cfg.S3, log)
	case BackendCloudinary:
		return NewCloudinaryStore(cfg.Cloudinary, log)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}

// extension returns the lower-cased extension of name, or a default derived
// from contentType.
func extension(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" && len(ext) <= 6 {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".jpg"
	}
}
