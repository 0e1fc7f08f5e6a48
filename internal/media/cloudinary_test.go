package media

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUploadAPI records the last call and returns a canned response.
type fakeUploadAPI struct {
	resp   *uploader.UploadResult
	err    error
	params uploader.UploadParams
	body   []byte
}

func (f *fakeUploadAPI) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	if r, ok := file.(io.Reader); ok {
		f.body, _ = io.ReadAll(r)
	}
	return f.resp, f.err
}

func TestCloudinaryBackend_Upload_OK(t *testing.T) {
	fake := &fakeUploadAPI{resp: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/deals/x.jpg"}}
	b := &CloudinaryBackend{api: fake, folder: Folder}

	url, err := b.Upload(context.Background(), File{Name: "x.jpg", Data: []byte("jpeg")})

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/deals/x.jpg", url)
	assert.Equal(t, "deals", fake.params.Folder)
	assert.Equal(t, "auto", fake.params.ResourceType)
	assert.Equal(t, []byte("jpeg"), fake.body)
}

func TestCloudinaryBackend_Upload_APIErrorInBody(t *testing.T) {
	fake := &fakeUploadAPI{resp: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}
	b := &CloudinaryBackend{api: fake, folder: Folder}

	_, err := b.Upload(context.Background(), File{Name: "x.jpg", Data: []byte("nope")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestCloudinaryBackend_Upload_TransportError(t *testing.T) {
	transport := errors.New("connection reset")
	b := &CloudinaryBackend{api: &fakeUploadAPI{err: transport}, folder: Folder}

	_, err := b.Upload(context.Background(), File{Name: "x.jpg", Data: []byte("jpeg")})

	assert.ErrorIs(t, err, transport)
}

func TestCloudinaryBackend_Upload_MissingURL(t *testing.T) {
	b := &CloudinaryBackend{api: &fakeUploadAPI{resp: &uploader.UploadResult{}}, folder: Folder}

	_, err := b.Upload(context.Background(), File{Name: "x.jpg", Data: []byte("jpeg")})

	assert.Error(t, err)
}
