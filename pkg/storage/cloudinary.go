package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Fixed transformation profiles. Images are capped at 1080x1080, videos at
// 1080x1920, both with the "limit" crop so smaller media is left untouched.
const (
	imageTransformation = "c_limit,h_1080,w_1080/q_auto"
	videoTransformation = "c_limit,h_1920,w_1080/q_auto"
)

// MediaStorage defines the contract for the media hosting provider
// (Cloudinary implementation).
type MediaStorage interface {
	// Upload stores the media read from r and returns its public URL.
	// contentType selects the transformation profile; folder is the logical
	// folder in storage (e.g. "instaclone/posts").
	Upload(ctx context.Context, r io.Reader, contentType, folder, fileName string) (string, error)
	// Delete removes previously stored media by its URL. It is best effort:
	// failures are logged and reported as false, never as an error.
	Delete(ctx context.Context, fileURL string) bool
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates the Cloudinary-backed implementation of MediaStorage.
// It expects CLOUDINARY_URL or individual CLOUDINARY_CLOUD_NAME / CLOUDINARY_API_KEY /
// CLOUDINARY_API_SECRET to be configured in environment variables.
func NewCloudinaryStorage() (MediaStorage, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, r io.Reader, contentType, folder, fileName string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("cloudinary storage is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	publicID := fmt.Sprintf("%s-%s", uuid.NewString(), base)

	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		Overwrite:      api.Bool(false),
		Transformation: imageTransformation,
	}

	if strings.HasPrefix(contentType, "video/") {
		params.ResourceType = "video"
		params.Transformation = videoTransformation
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload media to cloudinary: %w", err)
	}

	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, fileURL string) bool {
	if s == nil || s.cld == nil {
		return false
	}

	publicID := ExtractPublicID(fileURL)
	if publicID == "" {
		log.Printf("[Media] could not extract public ID from URL %s", fileURL)
		return false
	}

	// Invalidate clears the CDN cache alongside the asset.
	params := uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	}

	resp, err := s.cld.Upload.Destroy(ctx, params)
	if err != nil {
		log.Printf("[Media] failed to delete %s: %v", publicID, err)
		return false
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		log.Printf("[Media] cloudinary destroy returned result %q for %s", resp.Result, publicID)
		return false
	}

	return true
}

// ExtractPublicID derives the storage key from a delivery URL: the last two
// path segments minus the file extension.
// Example: https://res.cloudinary.com/demo/image/upload/v1/instaclone/posts/pic.jpg
// -> posts/pic
func ExtractPublicID(fileURL string) string {
	parts := strings.Split(fileURL, "/")
	if len(parts) < 2 {
		return ""
	}

	publicIDWithExt := strings.Join(parts[len(parts)-2:], "/")
	ext := filepath.Ext(publicIDWithExt)
	return strings.TrimSuffix(publicIDWithExt, ext)
}
