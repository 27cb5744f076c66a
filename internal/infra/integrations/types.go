package integrations

import "github.com/shopspring/decimal"

// 丟給LLM的商品摘要
type ProductBrief struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// LLM產生的文案 解析失敗時為零值
type ProductCopy struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

// LLM審核評分
type ApprovalScore struct {
	Approved bool     `json:"approved"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
}

// 供應商目錄回傳的刊登資料
type ListingData struct {
	ListingID   string          `json:"listing_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
}

// 廣告平台的活動素材
type Campaign struct {
	Headline string   `json:"headline"`
	Body     string   `json:"body"`
	Keywords []string `json:"keywords"`
	Budget   float64  `json:"budget"`
}
