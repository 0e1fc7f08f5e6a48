package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Folder is the Cloudinary folder every deal image is stored under.
const Folder = "deals"

// uploadAPI is the slice of the Cloudinary upload API the backend uses.
// *uploader.API satisfies it; tests substitute a fake.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryBackend uploads images to Cloudinary. One call is one attempt.
type CloudinaryBackend struct {
	api    uploadAPI
	folder string
}

// NewCloudinaryBackend builds a backend from account credentials.
func NewCloudinaryBackend(cloudName, apiKey, apiSecret string) (*CloudinaryBackend, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("media.NewCloudinaryBackend: %w", err)
	}
	return &CloudinaryBackend{api: &cld.Upload, folder: Folder}, nil
}

// Upload streams f to Cloudinary and returns its secure URL.
// Cloudinary reports API-level failures in the result body rather than as a
// Go error; both are surfaced as errors here.
func (b *CloudinaryBackend) Upload(ctx context.Context, f File) (string, error) {
	resp, err := b.api.Upload(ctx, f.reader(), uploader.UploadParams{
		Folder:       b.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("media.CloudinaryBackend.Upload: %w", err)
	}
	if resp == nil {
		return "", errors.New("media.CloudinaryBackend.Upload: empty response")
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("media.CloudinaryBackend.Upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("media.CloudinaryBackend.Upload: response has no secure_url")
	}
	return resp.SecureURL, nil
}
