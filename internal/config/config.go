package config

import (
	"time"

	"arb-router-sol/internal/mq"
	"arb-router-sol/internal/pkg/logger"
)

type LogConfig struct {
	Format   string `json:"format,default=console"` // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional"`       // 日志目录（可为相对路径或绝对路径），为空只输出到控制台
	Level    string `json:"level,default=info"`     // 日志级别：debug / info / warn / error
	Compress bool   `json:"compress,optional"`      // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置，Brokers 为空时不发送报告
type KafkaProducerConfig struct {
	Brokers    string `json:"brokers,optional"`          // Kafka broker 地址，多个用英文逗号分隔
	BatchSize  int    `json:"batch_size,optional"`       // 批处理大小（单位字节）
	LingerMs   int    `json:"linger_ms,optional"`        // 批处理最大延迟（毫秒）
	Topic      string `json:"topic,default=arb-reports"` // 执行报告 topic
	Partitions int    `json:"partitions,default=3"`      // 报告 topic 的分区数

	SecurityProtocol string `json:"security_protocol,optional"`
	SaslMechanism    string `json:"sasl_mechanism,optional"`
	SaslUsername     string `json:"sasl_username,optional"`
	SaslPassword     string `json:"sasl_password,optional"`
}

func (c *KafkaProducerConfig) Enabled() bool {
	return c.Brokers != ""
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:          c.Brokers,
		BatchSize:        c.BatchSize,
		LingerMs:         c.LingerMs,
		SecurityProtocol: c.SecurityProtocol,
		SaslMechanism:    c.SaslMechanism,
		SaslUsername:     c.SaslUsername,
		SaslPassword:     c.SaslPassword,
		Topics:           []mq.TopicOption{{Topic: c.Topic, Partitions: c.Partitions}},
	}
}

// RedisConfig 报告存储，Addr 为空时不落 Redis
type RedisConfig struct {
	Addr          string `json:"addr,optional"`
	Password      string `json:"password,optional"`
	DB            int    `json:"db,optional"`
	SuccessTTLSec int    `json:"success_ttl_sec,optional"` // 成功报告保留时长（秒）
	FailedTTLSec  int    `json:"failed_ttl_sec,optional"`  // 失败报告保留时长（秒）
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// TimeConfig 表示各种超时配置（单位：毫秒）
type TimeConfig struct {
	ReportSendTimeoutMs int `json:"report_send_timeout_ms,default=5000"` // 单条报告发送到 Kafka 并等待 ack 的超时时间
	SinkTimeoutMs       int `json:"sink_timeout_ms,default=10000"`       // 一轮报告落库 + 发送的总超时
	RpcTimeoutMs        int `json:"rpc_timeout_ms,default=5000"`         // 拉取 remote 账户的超时
}

func (c *TimeConfig) ReportSendTimeout() time.Duration {
	return time.Duration(c.ReportSendTimeoutMs) * time.Millisecond
}

func (c *TimeConfig) SinkTimeout() time.Duration {
	return msOrDefault(c.SinkTimeoutMs, 10*time.Second)
}

func (c *TimeConfig) RpcTimeout() time.Duration {
	return msOrDefault(c.RpcTimeoutMs, 5*time.Second)
}

func msOrDefault(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// SimConfig 是模拟器主配置
type SimConfig struct {
	LogConf           LogConfig           `json:"logger"`                  // 日志配置
	ProgramID         string              `json:"program_id"`              // 套利程序地址（base58）
	RpcEndpoint       string              `json:"rpc_endpoint,optional"`   // remote 账户数据源
	Scenarios         []string            `json:"scenarios,optional"`      // 默认执行的场景文件
	IntervalSec       int                 `json:"interval_sec,optional"`   // > 0 时按间隔重复执行
	KafkaProducerConf KafkaProducerConfig `json:"kafka_producer,optional"` // Kafka 生产者配置
	RedisConf         RedisConfig         `json:"redis,optional"`          // Redis 配置
	TimeConf          TimeConfig          `json:"time_conf,optional"`      // 时间相关配置
}

func (c *RedisConfig) SuccessTTL() time.Duration {
	return time.Duration(c.SuccessTTLSec) * time.Second
}

func (c *RedisConfig) FailedTTL() time.Duration {
	return time.Duration(c.FailedTTLSec) * time.Second
}
