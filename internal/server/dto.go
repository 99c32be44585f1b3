package server

import "github.com/LouYuanbo1/listingcrawler/internal/domain/model"

// 所有响应都带 success 字段

type ScrapeResponseDTO struct {
	Success bool                `json:"success"`
	Data    []model.Property    `json:"data"`
	Pages   []model.PageOutcome `json:"pages"`
}

type MaxPagesResponseDTO struct {
	Success  bool `json:"success"`
	MaxPages int  `json:"maxPages"`
}

type ErrorResponseDTO struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type HealthResponseDTO struct {
	Status string `json:"status"`
}
