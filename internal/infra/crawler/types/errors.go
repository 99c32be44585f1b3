package types

import "errors"

// 爬取过程中的错误分类,通过 %w 包装后用 errors.Is 判断
var (
	// ErrLaunch 浏览器进程启动或连接失败,对整个批次是致命的
	ErrLaunch = errors.New("browser launch failed")
	// ErrNavigation 页面导航超时或网络失败
	ErrNavigation = errors.New("navigation failed")
	// ErrMissingState 页面中没有出现内嵌状态脚本
	ErrMissingState = errors.New("embedded state not found")
	// ErrMalformedState 内嵌状态存在但不是合法的JSON对象
	ErrMalformedState = errors.New("embedded state is malformed")
	// ErrNoValidBlock 内嵌状态中没有任何符合房源列表结构的数据块
	ErrNoValidBlock = errors.New("no valid listing block in embedded state")
	// ErrElementNotFound 等待选择器超时
	ErrElementNotFound = errors.New("element not found")
)
