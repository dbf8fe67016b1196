package report

import (
	"encoding/binary"
	"fmt"

	"github.com/goccy/go-json"
)

// 消息类型前缀
const (
	EventExecutionReport uint32 = 1
)

// EncodeEvent 将消息编码为带事件类型前缀的二进制数据：
// - 前 4 字节为事件类型（uint32，小端序）
// - 后续为 JSON 数据
func EncodeEvent(eventType uint32, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("EncodeEvent: marshal %T: %w", v, err)
	}
	buf := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(buf[:4], eventType)
	return append(buf, body...), nil
}

// DecodeEvent 拆出事件类型与消息体
func DecodeEvent(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("DecodeEvent: data too short (%d)", len(data))
	}
	return binary.LittleEndian.Uint32(data[:4]), data[4:], nil
}

// EncodeReport 编码为 EventExecutionReport 消息
func EncodeReport(r *ExecutionReport) ([]byte, error) {
	return EncodeEvent(EventExecutionReport, r)
}

// DecodeReport 解码 EventExecutionReport 消息
func DecodeReport(data []byte) (*ExecutionReport, error) {
	eventType, body, err := DecodeEvent(data)
	if err != nil {
		return nil, err
	}
	if eventType != EventExecutionReport {
		return nil, fmt.Errorf("DecodeReport: unexpected event type %d", eventType)
	}
	var r ExecutionReport
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("DecodeReport: %w", err)
	}
	return &r, nil
}
