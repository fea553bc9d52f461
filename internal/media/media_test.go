package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestToWebP_Resizes(t *testing.T) {
	out, err := ToWebP(bytes.NewReader(pngBytes(t, 400, 200)), 100, DefaultQuality)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestToWebP_KeepsSmallImages(t *testing.T) {
	out, err := ToWebP(bytes.NewReader(pngBytes(t, 40, 30)), 100, DefaultQuality)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestToWebP_Garbage(t *testing.T) {
	_, err := ToWebP(strings.NewReader("not an image"), 100, DefaultQuality)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

type mockS3Client struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (m *mockS3Client) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.bucket = *in.Bucket
	m.key = *in.Key
	m.contentType = *in.ContentType
	m.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestStore_PutServiceImage(t *testing.T) {
	mock := &mockS3Client{}
	s := NewStore(mock, S3Config{Bucket: "imgs", PublicBaseURL: "https://cdn.example.com/"}, nil)

	url, err := s.PutServiceImage(context.Background(), "svc-1", []byte("webp"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/services/svc-1.webp", url)
	assert.Equal(t, "imgs", mock.bucket)
	assert.Equal(t, "services/svc-1.webp", mock.key)
	assert.Equal(t, "image/webp", mock.contentType)
	assert.Equal(t, []byte("webp"), mock.body)
}

func TestStore_DefaultURL(t *testing.T) {
	s := NewStore(&mockS3Client{}, S3Config{Bucket: "imgs", Region: "us-east-1"}, nil)

	url, err := s.PutServiceImage(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://imgs.s3.us-east-1.amazonaws.com/services/x.webp", url)
}

func TestStore_Disabled(t *testing.T) {
	s := NewStore(&mockS3Client{}, S3Config{}, nil)
	assert.False(t, s.Enabled())

	_, err := s.PutServiceImage(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestStore_PutError(t *testing.T) {
	s := NewStore(&mockS3Client{err: errors.New("denied")}, S3Config{Bucket: "b"}, nil)
	_, err := s.PutServiceImage(context.Background(), "x", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client(S3Config{Region: "auto", Endpoint: "https://r2.example.com", AccessKeyID: "a", SecretAccessKey: "b"})
	assert.True(t, c.Options().UsePathStyle)
	assert.Equal(t, "https://r2.example.com", *c.Options().BaseEndpoint)
}
