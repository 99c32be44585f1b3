package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
)

// fakeBrowser 按页码返回预设的内嵌状态和分页标题
type fakeBrowser struct {
	mu sync.Mutex

	states   map[int]string
	navErrs  map[int]error
	caption  string
	closeErr error
	// onNavigate 在每次导航后调用,用于在页与页之间制造副作用
	onNavigate func(page int)

	current  int
	visited  []string
	timeouts []time.Duration
	closes   int
}

func (f *fakeBrowser) Navigate(ctx context.Context, rawURL string, timeout time.Duration) error {
	f.mu.Lock()
	f.visited = append(f.visited, rawURL)
	f.timeouts = append(f.timeouts, timeout)
	f.mu.Unlock()

	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	page, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil {
		return err
	}
	f.current = page
	if f.onNavigate != nil {
		f.onNavigate(page)
	}
	if err := f.navErrs[page]; err != nil {
		return err
	}
	return nil
}

func (f *fakeBrowser) WaitFor(ctx context.Context, selector string, timeout time.Duration) (*chrome.Element, error) {
	switch selector {
	case config.Default().Site.StateSelector:
		state, ok := f.states[f.current]
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrElementNotFound, selector)
		}
		return &chrome.Element{Selector: selector, Text: state}, nil
	case config.Default().Site.PaginatorSelector:
		if f.caption == "" {
			return nil, fmt.Errorf("%w: %s", types.ErrElementNotFound, selector)
		}
		return &chrome.Element{Selector: selector, Text: f.caption}, nil
	}
	return nil, types.ErrElementNotFound
}

func (f *fakeBrowser) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.closeErr
}

func (f *fakeBrowser) visitedPages() []int {
	pages := make([]int, 0, len(f.visited))
	for _, raw := range f.visited {
		u, _ := url.Parse(raw)
		n, _ := strconv.Atoi(u.Query().Get("page"))
		pages = append(pages, n)
	}
	return pages
}

type fakeLauncher struct {
	browser  *fakeBrowser
	err      error
	launches int
}

func (l *fakeLauncher) launch(ctx context.Context) (chrome.ChromeCrawler, error) {
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	return l.browser, nil
}

func newTestService(cfg *config.Config, l *fakeLauncher) *scraperService {
	if cfg == nil {
		cfg = config.Default()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return InitScraperService(cfg, l.launch, logger).(*scraperService)
}

// stateWithBlock 生成一个只含一个列表块的内嵌状态,条目标题为 "<prefix>-<i>"
func stateWithBlock(key, prefix string, n int) string {
	return mustJSON(map[string]any{
		key:         block(prefix, n),
		"unrelated": map[string]any{"b": "text"},
	})
}

func block(prefix string, n int) map[string]any {
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"title": fmt.Sprintf("%s-%d", prefix, i),
			"slug":  fmt.Sprintf("%s-slug-%d", prefix, i),
		})
	}
	return map[string]any{"b": map[string]any{"data": map[string]any{"data": items}}}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
