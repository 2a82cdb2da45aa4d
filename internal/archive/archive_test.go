package archive

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	key  string
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = *in.Key
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestPutJSON(t *testing.T) {
	fs := &fakeS3{}
	a := NewS3Archiver(fs, "reports", "notification-ticks")
	at := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)

	key, err := a.PutJSON(context.Background(), at, "run-1", map[string]int{"processed": 3})
	if err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	want := "notification-ticks/2026/03/02/run-1.json"
	if key != want || fs.key != want {
		t.Errorf("key = %q (stored %q), want %q", key, fs.key, want)
	}

	var got map[string]int
	if err := json.Unmarshal(fs.body, &got); err != nil {
		t.Fatalf("body: %v", err)
	}
	if got["processed"] != 3 {
		t.Errorf("processed = %d", got["processed"])
	}
}
