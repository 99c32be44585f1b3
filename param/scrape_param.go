package param

// ScrapeRange 批量抓取的页码范围,两端都包含
type ScrapeRange struct {
	StartPage   int `json:"start_page"`
	EndPage     int `json:"end_page"`
	OperationID int `json:"operation_id"`
}

// MaxPages 查询总页数
type MaxPages struct {
	OperationID int `json:"operation_id"`
}
