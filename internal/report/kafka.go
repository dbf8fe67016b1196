package report

import (
	"context"
	"fmt"
	"time"

	"arb-router-sol/internal/mq"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/pkg/utils"
	"arb-router-sol/internal/types"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const defaultSendTimeout = 5 * time.Second

// KafkaPublisher 把执行报告发送到 Kafka，同一 authority 的报告落在同一分区
type KafkaPublisher struct {
	producer    *kafka.Producer
	topic       string
	partitions  int
	sendTimeout time.Duration
}

func NewKafkaPublisher(producer *kafka.Producer, topic string, partitions int, sendTimeout time.Duration) *KafkaPublisher {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &KafkaPublisher{producer: producer, topic: topic, partitions: partitions, sendTimeout: sendTimeout}
}

// BuildJob 编码报告并按 authority 选择分区
func BuildJob(topic string, partitions int, r *ExecutionReport) (*mq.KafkaJob, error) {
	authority, err := types.TryPubkeyFromBase58(r.Authority)
	if err != nil {
		return nil, fmt.Errorf("report %s authority: %w", r.ID, err)
	}
	value, err := EncodeReport(r)
	if err != nil {
		return nil, err
	}
	var partition int32
	if partitions > 0 {
		partition = int32(utils.PartitionHashBytes(authority[:], uint32(partitions)))
	}
	return &mq.KafkaJob{
		Topic:     topic,
		Partition: partition,
		Key:       authority[:],
		Value:     value,
		Headers: map[string]string{
			"scenario": r.Scenario,
			"status":   string(r.Status),
		},
	}, nil
}

// Publish 发送一批报告，任一失败返回汇总错误
func (p *KafkaPublisher) Publish(ctx context.Context, reports ...*ExecutionReport) error {
	jobs := make([]*mq.KafkaJob, 0, len(reports))
	for _, r := range reports {
		job, err := BuildJob(p.topic, p.partitions, r)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}
	ok, failed := mq.SendKafkaJobs(ctx, p.producer, jobs, p.sendTimeout)
	logger.Infof("[report:Publish] topic=%s sent=%d failed=%d", p.topic, len(ok), len(failed))
	return mq.JoinFailures(failed)
}
