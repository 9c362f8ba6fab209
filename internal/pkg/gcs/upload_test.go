package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const testBucketName = "test-bucket"

func newFakeGCS(t *testing.T, handler http.Handler) (*storage.Client, func()) {
	server := httptest.NewServer(handler)

	client, err := storage.NewClient(
		context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(server.URL),
		option.WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("Failed to create fake GCS client: %v", err)
	}

	return client, server.Close
}

// recordingHandler accepts uploads and keeps the query and body of each request.
type recordingHandler struct {
	mu     sync.Mutex
	bodies []string
	query  []string
	status int
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	h.mu.Lock()
	h.bodies = append(h.bodies, string(body))
	h.query = append(h.query, r.URL.RawQuery)
	h.mu.Unlock()

	if h.status != 0 {
		w.WriteHeader(h.status)
		return
	}
	w.Header().Set("Location", "/upload-session")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}

func TestNewGCSClientBucketName(t *testing.T) {
	client, err := NewGCSClient(context.Background(), testBucketName, option.WithoutAuthentication())
	require.NoError(t, err)
	assert.Equal(t, testBucketName, client.(*GCSClient).BucketName)
	client.Close(context.Background())
}

func TestGCSClientCloseNilSafe(t *testing.T) {
	gcsClient := &GCSClient{Client: nil, BucketName: testBucketName}
	assert.NotPanics(t, func() {
		gcsClient.Close(context.Background())
	})
}

func TestUploadJSON(t *testing.T) {
	handler := &recordingHandler{}
	client, closeServer := newFakeGCS(t, handler)
	defer closeServer()

	gcsClient := &GCSClient{Client: client, BucketName: testBucketName}
	err := gcsClient.UploadJSON(context.Background(), "rollover/2025-05.json", map[string]int{"rolled": 12})
	require.NoError(t, err)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	require.NotEmpty(t, handler.bodies)
	assert.Contains(t, strings.Join(handler.bodies, ""), `{"rolled":12}`)
	assert.Contains(t, strings.Join(handler.query, "&"), "ifGenerationMatch=0")
}

func TestUploadJSON_MarshalError(t *testing.T) {
	gcsClient := &GCSClient{BucketName: testBucketName}
	assert.Error(t, gcsClient.UploadJSON(context.Background(), "x.json", make(chan int)))
}

func TestUploadJSON_PreconditionFailed(t *testing.T) {
	client, closeServer := newFakeGCS(t, &recordingHandler{status: http.StatusPreconditionFailed})
	defer closeServer()

	gcsClient := &GCSClient{Client: client, BucketName: testBucketName}
	assert.Error(t, gcsClient.UploadJSON(context.Background(), "rollover/2025-05.json", map[string]int{}))
}

func TestUploadBytes(t *testing.T) {
	handler := &recordingHandler{}
	client, closeServer := newFakeGCS(t, handler)
	defer closeServer()

	gcsClient := &GCSClient{Client: client, BucketName: testBucketName}
	err := gcsClient.UploadBytes(context.Background(), "exports/students.xlsx", []byte("xlsx-bytes"), "application/octet-stream")
	require.NoError(t, err)
}

func TestUploadBytes_ServerError(t *testing.T) {
	client, closeServer := newFakeGCS(t, &recordingHandler{status: http.StatusInternalServerError})
	defer closeServer()

	gcsClient := &GCSClient{Client: client, BucketName: testBucketName}
	assert.Error(t, gcsClient.UploadBytes(context.Background(), "exports/a.xlsx", []byte("x"), "application/octet-stream"))
}
