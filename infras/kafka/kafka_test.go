package kafka_test

import (
	"bedcall/infras/kafka"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trigger struct {
	CampaignID string `json:"campaign_id"`
	BatchSize  int    `json:"batch_size"`
}

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{Key: "c1", Value: trigger{CampaignID: "c1", BatchSize: 5}}

	out, err := msg.ToKafkaMessage()
	require.NoError(t, err)

	assert.Equal(t, []byte("c1"), out.Key)
	assert.JSONEq(t, `{"campaign_id":"c1","batch_size":5}`, string(out.Value))
}

func TestMessage_ToKafkaMessage_Unmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "bad", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	got, err := kafka.Decode[trigger](kafkaGo.Message{Value: []byte(`{"campaign_id":"c9","batch_size":3}`)})
	require.NoError(t, err)
	assert.Equal(t, trigger{CampaignID: "c9", BatchSize: 3}, got)

	_, err = kafka.Decode[trigger](kafkaGo.Message{Value: []byte(`{`)})
	assert.Error(t, err)
}
