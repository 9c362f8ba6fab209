package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockKafkaPublisher struct {
	mock.Mock
}

func (m *MockKafkaPublisher) Publish(ctx context.Context, key string, msg []byte) error {
	args := m.Called(ctx, key, msg)
	return args.Error(0)
}

type MockNotificationPublisher struct {
	mock.Mock
}

func (m *MockNotificationPublisher) PublishJSON(ctx context.Context, topic string, payload interface{},
	attrs map[string]string) error {
	args := m.Called(ctx, topic, payload, attrs)
	return args.Error(0)
}

type MockRedisStore struct {
	mock.Mock
}

func (m *MockRedisStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, expiration)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

// MockGCS records uploads in memory.
type MockGCS struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func (m *MockGCS) UploadJSON(ctx context.Context, objectName string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.put(objectName, data)
}

func (m *MockGCS) UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error {
	return m.put(objectName, data)
}

func (m *MockGCS) Close(ctx context.Context) {}

func (m *MockGCS) put(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.Objects == nil {
		m.Objects = map[string][]byte{}
	}
	m.Objects[name] = data
	return nil
}
