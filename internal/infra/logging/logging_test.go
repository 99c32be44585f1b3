package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	tag  string
	data map[string]any
}

type fakePoster struct {
	mu     sync.Mutex
	posts  []post
	closed bool
	err    error
}

func (f *fakePoster) Post(tag string, message any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, post{tag: tag, data: message.(map[string]any)})
	return f.err
}

func (f *fakePoster) Close() error {
	f.closed = true
	return nil
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFluentHandler(t *testing.T) {
	t.Run("flattens attrs and groups", func(t *testing.T) {
		poster := &fakePoster{}
		logger := slog.New(NewFluentHandler(poster, slog.LevelInfo)).
			With(slog.String("service_name", "crawler")).
			WithGroup("batch")

		logger.Warn("page failed",
			slog.Int("page", 3),
			slog.Duration("elapsed", 2*time.Second),
			slog.Any("err", errors.New("boom")),
			slog.Group("range", slog.Int("start", 0), slog.Int("end", 5)))

		require.Len(t, poster.posts, 1)
		got := poster.posts[0]
		assert.Equal(t, "warn", got.tag)
		assert.Equal(t, "page failed", got.data["message"])
		assert.Equal(t, "warn", got.data["level"])
		assert.Equal(t, "crawler", got.data["service_name"])
		assert.Equal(t, int64(3), got.data["batch.page"])
		assert.Equal(t, "2s", got.data["batch.elapsed"])
		assert.Equal(t, "boom", got.data["batch.err"])
		assert.Equal(t, int64(0), got.data["batch.range.start"])
		assert.Equal(t, int64(5), got.data["batch.range.end"])
		assert.NotEmpty(t, got.data["timestamp"])
	})

	t.Run("drops records below min level", func(t *testing.T) {
		poster := &fakePoster{}
		logger := slog.New(NewFluentHandler(poster, slog.LevelWarn))

		logger.Info("skipped")
		logger.Error("kept")

		require.Len(t, poster.posts, 1)
		assert.Equal(t, "error", poster.posts[0].tag)
	})

	t.Run("post errors are swallowed", func(t *testing.T) {
		poster := &fakePoster{err: errors.New("connection refused")}
		h := NewFluentHandler(poster, nil)
		logger := slog.New(h)
		assert.NotPanics(t, func() { logger.Info("still fine") })
		assert.Len(t, poster.posts, 1)
	})

	t.Run("attrs added later do not leak into parent", func(t *testing.T) {
		poster := &fakePoster{}
		parent := slog.New(NewFluentHandler(poster, nil))
		child := parent.With(slog.String("trace_id", "t-1"))

		child.Info("child")
		parent.Info("parent")

		require.Len(t, poster.posts, 2)
		assert.Equal(t, "t-1", poster.posts[0].data["trace_id"])
		_, ok := poster.posts[1].data["trace_id"]
		assert.False(t, ok)
	})
}

func TestMultiHandler(t *testing.T) {
	var text bytes.Buffer
	poster := &fakePoster{}
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&text, &slog.HandlerOptions{Level: slog.LevelDebug}),
		NewFluentHandler(poster, slog.LevelWarn),
	)).With(slog.String("component", "scraper"))

	logger.Debug("debug only on console")
	logger.Warn("both")

	assert.Equal(t, 2, strings.Count(text.String(), "component=scraper"))
	require.Len(t, poster.posts, 1)
	assert.Equal(t, "both", poster.posts[0].data["message"])
	assert.Equal(t, "scraper", poster.posts[0].data["component"])

	single := slog.NewTextHandler(&text, nil)
	assert.Same(t, single, NewMultiHandler(single))
}

func TestNewConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(ConsoleOptions{Writer: &buf, JSON: true}))
	logger.Info("hola", slog.Int("page", 1))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hola", line["msg"])
	assert.Equal(t, float64(1), line["page"])

	buf.Reset()
	logger = slog.New(NewConsoleHandler(ConsoleOptions{Writer: &buf, Color: true}))
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Color = false

	var buf bytes.Buffer
	logger, closer, err := InitLogger(cfg, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("ready")
	assert.Contains(t, buf.String(), "service_name=listingcrawler")
	assert.Contains(t, buf.String(), "msg=ready")
}

func TestErr(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
}
