package chrome

import (
	"context"
	"time"
)

// Element 等待到的页面元素,只保留其文本内容(textContent)
type Element struct {
	Selector string
	Text     string
}

// ChromeCrawler 一个浏览器实例加一个标签页,按顺序导航并读取元素。
// 实现不保证并发安全,一个实例只属于一次批量调用。
type ChromeCrawler interface {
	// Navigate 导航到url,在timeout内等待DOM就绪
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// WaitFor 在timeout内等待选择器对应的元素挂载到DOM并返回其文本
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (*Element, error)
	// Close 释放浏览器资源,重复调用只生效一次
	Close() error
}

// Launcher 启动一个全新的浏览器实例。返回错误时,已经申请的资源已被释放。
type Launcher func(ctx context.Context) (ChromeCrawler, error)
