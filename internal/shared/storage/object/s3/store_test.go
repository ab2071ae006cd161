package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"image-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "foo.png", want: "foo.png"},
		{name: "simple prefix", prefix: "images", key: "foo.png", want: "images/foo.png"},
		{name: "prefix trailing slash", prefix: "images/", key: "foo.png", want: "images/foo.png"},
		{name: "prefix and key slashes", prefix: "/images/", key: "/foo.png", want: "images/foo.png"},
		{name: "nested prefix", prefix: "tenant/images", key: "foo.png", want: "tenant/images/foo.png"},
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

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = body
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(body)))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := aws.ToString(in.Prefix)
	out := &s3.ListObjectsV2Output{}
	seen := map[string]bool{}
	for key, body := range f.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				out.CommonPrefixes = append(out.CommonPrefixes, s3types.CommonPrefix{Prefix: aws.String(cp)})
			}
			continue
		}
		out.Contents = append(out.Contents, s3types.Object{
			Key:  aws.String(key),
			Size: aws.Int64(int64(len(body))),
		})
	}
	return out, nil
}

func TestStorePutOpenRoundTripUnderPrefix(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "/images/", "")
	ctx := context.Background()

	n, err := store.Put(ctx, "foo.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != int64(len("png-bytes")) {
		t.Fatalf("unexpected size %d", n)
	}
	if _, ok := fake.objects["images/foo.png"]; !ok {
		t.Fatalf("expected object under prefix, got keys %v", fake.objects)
	}
	if fake.puts[0].ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 default encryption")
	}

	rc, info, err := store.Open(ctx, "foo.png")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "png-bytes" || info.Size != 9 {
		t.Fatalf("unexpected body %q info %+v", body, info)
	}
}

func TestStoreKMSEncryption(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "", "kms-key")
	if _, err := store.Put(context.Background(), "foo.png", strings.NewReader("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	in := fake.puts[0]
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(in.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected kms encryption, got %v %v", in.ServerSideEncryption, aws.ToString(in.SSEKMSKeyId))
	}
}

func TestStoreMissingObjectsMapToNotFound(t *testing.T) {
	store := NewWithClient(newFakeS3(), "bucket", "images", "")
	ctx := context.Background()
	if _, _, err := store.Open(ctx, "foo.webp"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("Open: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Stat(ctx, "foo.webp"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("Stat: expected ErrNotFound, got %v", err)
	}
}

func TestStoreListIsFlat(t *testing.T) {
	fake := newFakeS3()
	fake.objects["images/a.png"] = []byte("a")
	fake.objects["images/b.png"] = []byte("bb")
	fake.objects["images/nested/c.png"] = []byte("c")
	fake.objects["other/d.png"] = []byte("d")
	store := NewWithClient(fake, "bucket", "images", "")

	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var files, dirs []string
	for _, e := range entries {
		if e.Dir {
			dirs = append(dirs, e.Name)
		} else {
			files = append(files, e.Name)
		}
	}
	sort.Strings(files)
	if strings.Join(files, ",") != "a.png,b.png" {
		t.Fatalf("unexpected files %v", files)
	}
	if len(dirs) != 1 || dirs[0] != "nested" {
		t.Fatalf("unexpected dirs %v", dirs)
	}
}

func TestStoreRejectsNonFlatNames(t *testing.T) {
	store := NewWithClient(newFakeS3(), "bucket", "", "")
	if _, err := store.Put(context.Background(), "a/b.png", strings.NewReader("x")); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
