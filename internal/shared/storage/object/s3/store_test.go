package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"makeup-backend/internal/shared/storage/object"
)

type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/selfie.jpg", want: "user/selfie.jpg"},
		{name: "simple prefix", prefix: "photos", key: "user/selfie.jpg", want: "photos/user/selfie.jpg"},
		{name: "prefix and key slashes", prefix: "/photos/", key: "/user/selfie.jpg", want: "photos/user/selfie.jpg"},
		{name: "empty key", prefix: "photos", key: "", want: "photos"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestSaveUploadsWithPrefixAndEncryption(t *testing.T) {
	fake := newFakeS3()
	store := newWithClient(fake, "bucket", "/selfies/", "kms-key")

	content := []byte("\x89PNG\r\n\x1a\n-rest-of-image")
	obj, err := store.Save(context.Background(), "guest:abc", "me.png", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if obj.MimeType != "image/png" || obj.Size != int64(len(content)) || obj.Checksum == "" {
		t.Fatalf("unexpected object %+v", obj)
	}
	if len(fake.puts) != 1 {
		t.Fatalf("expected 1 put, got %d", len(fake.puts))
	}
	put := fake.puts[0]
	if !strings.HasPrefix(aws.ToString(put.Key), "selfies/") {
		t.Fatalf("expected prefixed key, got %s", aws.ToString(put.Key))
	}
	if put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(put.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected kms encryption, got %v", put.ServerSideEncryption)
	}

	rc, err := store.Open(context.Background(), obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch")
	}
}

func TestOpenMissingKey(t *testing.T) {
	store := newWithClient(newFakeS3(), "bucket", "", "")
	if _, err := store.Open(context.Background(), "nope"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPresignPutSignedHeadersExcludeContentLength(t *testing.T) {
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}
	client := s3.NewFromConfig(cfg)
	store := newWithClient(client, "bucket", "selfies", "")
	store.presign = s3.NewPresignClient(client)

	rawURL, key, err := store.PresignPut(context.Background(), "guest:abc", "me.jpg", "image/jpeg", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignPut: %v", err)
	}
	if !object.OwnsKey("guest:abc", key) {
		t.Fatalf("key %q not in owner namespace", key)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if !strings.Contains(parsed.Path, "selfies/") {
		t.Fatalf("expected prefixed path, got %s", parsed.Path)
	}
	signed := parsed.Query().Get("X-Amz-SignedHeaders")
	if signed == "" {
		t.Fatalf("expected X-Amz-SignedHeaders")
	}
	if strings.Contains(signed, "content-length") {
		t.Fatalf("unexpected content-length in signed headers: %s", signed)
	}
	if !strings.Contains(signed, "host") {
		t.Fatalf("expected host in signed headers: %s", signed)
	}
}

func TestPresignPutWithoutClient(t *testing.T) {
	store := newWithClient(newFakeS3(), "bucket", "", "")
	if _, _, err := store.PresignPut(context.Background(), "u", "a.jpg", "image/jpeg", time.Minute); err == nil {
		t.Fatalf("expected error without presign client")
	}
}
