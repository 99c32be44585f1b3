package logging

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentPoster 是 *fluent.Fluent 中日志处理器用到的部分
type FluentPoster interface {
	Post(tag string, message any) error
	Close() error
}

// NewFluentClient 创建 Fluent Bit 客户端。
// 创建成功不代表连接可用,连接错误会在第一次发送时出现。
func NewFluentClient(host string, port int, tagPrefix string) (*fluent.Fluent, error) {
	if tagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	client, err := fluent.New(fluent.Config{
		FluentHost: host,
		FluentPort: port,
		TagPrefix:  tagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("create fluent client: %w", err)
	}
	return client, nil
}

// fluentHandler 把 slog 记录扁平化为 map 后发送到 Fluent Bit,tag 为日志级别
type fluentHandler struct {
	client   FluentPoster
	minLevel slog.Leveler
	attrs    map[string]any
	prefix   string
}

func NewFluentHandler(client FluentPoster, minLevel slog.Leveler) slog.Handler {
	if minLevel == nil {
		minLevel = slog.LevelInfo
	}
	return &fluentHandler{
		client:   client,
		minLevel: minLevel,
		attrs:    map[string]any{},
	}
}

func (h *fluentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel.Level()
}

func (h *fluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]any, len(h.attrs)+r.NumAttrs()+3)
	maps.Copy(data, h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		flatten(data, h.prefix, a)
		return true
	})

	level := strings.ToLower(r.Level.String())
	data["level"] = level
	data["message"] = r.Message
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	data["timestamp"] = ts.UTC().Format(time.RFC3339Nano)

	// 发送失败不影响业务
	_ = h.client.Post(level, data)
	return nil
}

func (h *fluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		flatten(next.attrs, next.prefix, a)
	}
	return next
}

func (h *fluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *fluentHandler) clone() *fluentHandler {
	return &fluentHandler{
		client:   h.client,
		minLevel: h.minLevel,
		attrs:    maps.Clone(h.attrs),
		prefix:   h.prefix,
	}
}

func flatten(data map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			flatten(data, groupPrefix, ga)
		}
		return
	}

	key := prefix + a.Key
	switch a.Value.Kind() {
	case slog.KindString:
		data[key] = a.Value.String()
	case slog.KindInt64:
		data[key] = a.Value.Int64()
	case slog.KindUint64:
		data[key] = a.Value.Uint64()
	case slog.KindFloat64:
		data[key] = a.Value.Float64()
	case slog.KindBool:
		data[key] = a.Value.Bool()
	case slog.KindDuration:
		data[key] = a.Value.Duration().String()
	case slog.KindTime:
		data[key] = a.Value.Time().UTC().Format(time.RFC3339Nano)
	default:
		if err, ok := a.Value.Any().(error); ok {
			data[key] = err.Error()
			return
		}
		data[key] = fmt.Sprint(a.Value.Any())
	}
}
