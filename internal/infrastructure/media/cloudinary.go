package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/ports"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryStore uploads photos to Cloudinary. References are the secure
// delivery URLs.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    zerolog.Logger
}

func NewCloudinaryStore(cfg CloudinaryConfig, log zerolog.Logger) (*CloudinaryStore, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: cfg.Folder, log: log}, nil
}

func (s *CloudinaryStore) Name() string { return BackendCloudinary }

func (s *CloudinaryStore) Put(ctx context.Context, photo ports.PhotoUpload) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, photo.Body, uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty url")
	}
	return res.SecureURL, nil
}

// Delete destroys the asset named by ref, which may be a delivery URL or a
// bare public id. An asset Cloudinary reports as "not found" is treated as
// already deleted.
func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	publicID := publicIDFromRef(ref)
	if publicID == "" {
		s.log.Warn().Str("ref", ref).Msg("ignoring malformed cloudinary reference")
		return nil
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Error.Message)
	}
	if res.Result != "ok" {
		s.log.Debug().Str("public_id", publicID).Str("result", res.Result).Msg("photo already absent")
	}
	return nil
}

// publicIDFromRef extracts the public id from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v1712/folder/name.jpg
// (yielding "folder/name"). Anything that is not a URL is returned as is.
func publicIDFromRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, "://") {
		return ref
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found {
		return ""
	}

	segments := strings.Split(rest, "/")
	if len(segments) > 1 && isVersionSegment(segments[0]) {
		segments = segments[1:]
	}
	id := strings.Join(segments, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
