package mq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaJobMessage(t *testing.T) {
	job := &KafkaJob{
		Topic:     "arb-reports",
		Partition: 3,
		Key:       []byte("authority"),
		Value:     []byte("payload"),
		Headers:   map[string]string{"status": "success"},
	}
	msg := job.message()
	require.NotNil(t, msg.TopicPartition.Topic)
	assert.Equal(t, "arb-reports", *msg.TopicPartition.Topic)
	assert.Equal(t, int32(3), msg.TopicPartition.Partition)
	assert.Equal(t, []byte("authority"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "status", msg.Headers[0].Key)
	assert.Equal(t, []byte("success"), msg.Headers[0].Value)
}

func TestJoinFailures(t *testing.T) {
	assert.NoError(t, JoinFailures(nil))

	timeout := errors.New("delivery timeout")
	err := JoinFailures([]KafkaSendResult{
		{Job: &KafkaJob{Topic: "t", Partition: 1}, Err: timeout},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, timeout)
	assert.Contains(t, err.Error(), "partition=1")
}
