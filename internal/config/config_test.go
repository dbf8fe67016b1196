package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/conf"
)

const sample = `
logger:
  format: json
  level: debug
program_id: ArbRtr1111111111111111111111111111111111111
scenarios:
  - etc/scenarios/two_hop.yaml
kafka_producer:
  brokers: 127.0.0.1:9092
  topic: arb-reports
  partitions: 6
redis:
  addr: 127.0.0.1:6379
  success_ttl_sec: 3600
time_conf:
  report_send_timeout_ms: 2000
  sink_timeout_ms: 0
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	var c SimConfig
	require.NoError(t, conf.Load(path, &c))

	assert.Equal(t, "json", c.LogConf.ToLogOption().Format)
	assert.Equal(t, []string{"etc/scenarios/two_hop.yaml"}, c.Scenarios)

	assert.True(t, c.KafkaProducerConf.Enabled())
	opt := c.KafkaProducerConf.ToKafkaOption()
	require.Len(t, opt.Topics, 1)
	assert.Equal(t, 6, opt.Topics[0].Partitions)

	assert.True(t, c.RedisConf.Enabled())
	assert.Equal(t, time.Hour, c.RedisConf.SuccessTTL())
	assert.Equal(t, time.Duration(0), c.RedisConf.FailedTTL())

	assert.Equal(t, 2*time.Second, c.TimeConf.ReportSendTimeout())
	assert.Equal(t, 10*time.Second, c.TimeConf.SinkTimeout())
}
