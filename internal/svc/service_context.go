package svc

import (
	"fmt"

	"arb-router-sol/internal/config"
	"arb-router-sol/internal/logic/simulate"
	"arb-router-sol/internal/mq"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/report"
	"arb-router-sol/internal/types"
	"github.com/blocto/solana-go-sdk/client"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// ServiceContext 包含模拟服务资源，Kafka / Redis 未配置时对应字段为 nil
type ServiceContext struct {
	Config    config.SimConfig
	Simulator *simulate.Simulator
	Store     *report.RedisStore
	Publisher *report.KafkaPublisher

	producer *kafka.Producer
	rdb      *redis.Client
}

// NewServiceContext 创建服务上下文
func NewServiceContext(c config.SimConfig) (*ServiceContext, error) {
	programID, err := types.TryPubkeyFromBase58(c.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("program_id: %w", err)
	}
	ctx := &ServiceContext{
		Config:    c,
		Simulator: simulate.New(programID),
	}

	// 1. 链上账户数据源
	if c.RpcEndpoint != "" {
		ctx.Simulator.WithFetcher(client.NewClient(c.RpcEndpoint))
	}

	// 2. Kafka 生产者
	if c.KafkaProducerConf.Enabled() {
		producer, err := mq.NewKafkaProducer(c.KafkaProducerConf.ToKafkaOption())
		if err != nil {
			logger.Errorf("Kafka producer 初始化失败: %v", err)
			return nil, err
		}
		ctx.producer = producer
		ctx.Publisher = report.NewKafkaPublisher(producer, c.KafkaProducerConf.Topic, c.KafkaProducerConf.Partitions, c.TimeConf.ReportSendTimeout())
	}

	// 3. Redis 报告存储
	if c.RedisConf.Enabled() {
		ctx.rdb = redis.NewClient(&redis.Options{
			Addr:     c.RedisConf.Addr,
			Password: c.RedisConf.Password,
			DB:       c.RedisConf.DB,
		})
		ctx.Store = report.NewRedisStore(ctx.rdb, c.RedisConf.SuccessTTL(), c.RedisConf.FailedTTL())
	}

	logger.Infof("模拟服务上下文初始化完成: program=%s kafka=%v redis=%v", programID, ctx.Publisher != nil, ctx.Store != nil)
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.producer != nil {
		ctx.producer.Flush(5000)
		ctx.producer.Close()
	}
	if ctx.rdb != nil {
		_ = ctx.rdb.Close()
	}
}
