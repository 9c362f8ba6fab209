package gcs

import (
	"context"
	"encoding/json"
	"log/slog"

	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSClient struct {
	Client     *storage.Client
	BucketName string
}

type GcsInterface interface {
	// UploadJSON writes v as a new object. An existing object is left alone
	// and reported as an error.
	UploadJSON(ctx context.Context, objectName string, v interface{}) error
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
	Close(ctx context.Context)
}

func NewGCSClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (GcsInterface, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSClient{
		Client:     client,
		BucketName: bucketName,
	}, nil
}

func (g *GCSClient) Close(ctx context.Context) {
	if g.Client == nil {
		return
	}
	if err := g.Client.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSClient, err)
	}
}

func (g *GCSClient) UploadJSON(ctx context.Context, objectName string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err)
		return err
	}
	object := g.Client.Bucket(g.BucketName).Object(objectName).If(storage.Conditions{DoesNotExist: true})
	return g.write(ctx, object, objectName, data, "application/json")
}

func (g *GCSClient) UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error {
	object := g.Client.Bucket(g.BucketName).Object(objectName)
	return g.write(ctx, object, objectName, data, contentType)
}

func (g *GCSClient) write(ctx context.Context, object *storage.ObjectHandle, objectName string,
	data []byte, contentType string) error {
	writer := object.NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := writer.Write(data); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToGCSBucket, err, slog.String("objectName", objectName))
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSWriter, err, slog.String("objectName", objectName))
		return err
	}
	logger.CtxInfo(ctx, log_messages.UploadedToGCSBucket, slog.String("objectName", objectName))
	return nil
}
