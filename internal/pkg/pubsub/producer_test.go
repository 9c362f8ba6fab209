package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"busfee/internal/pkg/consts"
	"busfee/internal/service/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProjectID = "test-project"

type mockPubSubPublisherClient struct {
	publishers  map[string]*mockPublisher
	closeCalled bool
	closeErr    error
}

func (m *mockPubSubPublisherClient) Publisher(topic string) interfaces.PublisherInterface {
	if m.publishers == nil {
		m.publishers = make(map[string]*mockPublisher)
	}
	if _, ok := m.publishers[topic]; !ok {
		m.publishers[topic] = &mockPublisher{}
	}
	return m.publishers[topic]
}

func (m *mockPubSubPublisherClient) Close() error {
	m.closeCalled = true
	return m.closeErr
}

type mockPublisher struct {
	publishCalled bool
	msg           []byte
	attrs         map[string]string
	publishError  error
}

func (m *mockPublisher) Publish(ctx context.Context, msg []byte, attrs map[string]string) error {
	m.publishCalled = true
	m.msg = msg
	m.attrs = attrs
	return m.publishError
}

type mockPublisherFactory struct {
	client interfaces.PubSubPublisherClientInterface
	err    error
}

func (m *mockPublisherFactory) NewPubSubPublisherClient(ctx context.Context,
	projectID string) (interfaces.PubSubPublisherClientInterface, error) {
	return m.client, m.err
}

func TestNewPubSubPublisherWithFactory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockClient := &mockPubSubPublisherClient{}
		publisher, err := NewPubSubPublisherWithFactory(context.Background(), testProjectID,
			&mockPublisherFactory{client: mockClient})
		require.NoError(t, err)
		assert.Equal(t, mockClient, publisher.PubSubClient)
		assert.NotNil(t, publisher.Ctx)
		assert.NotNil(t, publisher.Cancel)
	})

	t.Run("factory error", func(t *testing.T) {
		publisher, err := NewPubSubPublisherWithFactory(context.Background(), testProjectID,
			&mockPublisherFactory{err: errors.New("factory error")})
		assert.Error(t, err)
		assert.Nil(t, publisher)
	})
}

func TestPublishJSON(t *testing.T) {
	mockClient := &mockPubSubPublisherClient{}
	publisher := &PubSubPublisher{PubSubClient: mockClient}

	msg := NotificationMessage{
		NotificationType: consts.NotificationReminder,
		Channel:          consts.ChannelSMS,
		StudentName:      "Asha",
		Amount:           1200,
	}
	err := publisher.PublishJSON(context.Background(), "notifications", msg, msg.Attributes())
	require.NoError(t, err)

	mockPub := mockClient.publishers["notifications"]
	require.NotNil(t, mockPub)
	assert.True(t, mockPub.publishCalled)
	assert.Equal(t, consts.ChannelSMS, mockPub.attrs["channel"])

	var decoded NotificationMessage
	require.NoError(t, json.Unmarshal(mockPub.msg, &decoded))
	assert.Equal(t, "Asha", decoded.StudentName)
	assert.Equal(t, 1200.0, decoded.Amount)
}

func TestPublishJSON_MarshalError(t *testing.T) {
	mockClient := &mockPubSubPublisherClient{}
	publisher := &PubSubPublisher{PubSubClient: mockClient}

	err := publisher.PublishJSON(context.Background(), "notifications", make(chan int), nil)
	assert.Error(t, err)
	assert.Empty(t, mockClient.publishers)
}

func TestPublish_Error(t *testing.T) {
	mockClient := &mockPubSubPublisherClient{publishers: map[string]*mockPublisher{
		"t": {publishError: errors.New("publish failed")},
	}}
	publisher := &PubSubPublisher{PubSubClient: mockClient}

	assert.EqualError(t, publisher.Publish(context.Background(), "t", []byte("x"), nil), "publish failed")
}

func TestClose(t *testing.T) {
	cancelled := false
	mockClient := &mockPubSubPublisherClient{}
	publisher := &PubSubPublisher{PubSubClient: mockClient, Cancel: func() { cancelled = true }}

	assert.NoError(t, publisher.Close())
	assert.True(t, cancelled)
	assert.True(t, mockClient.closeCalled)
}
