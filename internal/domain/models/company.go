package models

// CompanyInfo is the descriptive metadata shown above the charts.
type CompanyInfo struct {
	Name      string `json:"name"`
	Industry  string `json:"industry"`
	MarketCap int64  `json:"market_cap"`
}
