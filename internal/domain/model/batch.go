package model

type PageStatus string

const (
	PageOK     PageStatus = "ok"
	PageEmpty  PageStatus = "empty"
	PageFailed PageStatus = "failed"
)

// PageOutcome 单个页码的处理结果,让调用方区分"空页"与"出错的页"
type PageOutcome struct {
	Page   int        `json:"page"`
	Status PageStatus `json:"status"`
	Count  int        `json:"count"`
	Error  string     `json:"error,omitempty"`
	Err    error      `json:"-"`
}

// BatchResult 一次批量抓取的结果,Properties 按页码顺序、页内按源顺序排列
type BatchResult struct {
	Properties []Property    `json:"data"`
	Pages      []PageOutcome `json:"pages"`
}

func (b *BatchResult) FailedPages() []PageOutcome {
	var failed []PageOutcome
	for _, p := range b.Pages {
		if p.Status == PageFailed {
			failed = append(failed, p)
		}
	}
	return failed
}
