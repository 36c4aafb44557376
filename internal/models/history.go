package models

import "time"

// RunRecord is a stored summary of one extraction run.
type RunRecord struct {
	ID         int64     `json:"id"`
	CatalogURL string    `json:"catalog_url"`
	Metric     string    `json:"metric"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Partial    bool      `json:"partial"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RunItem is the stored outcome of one item within a run.
type RunItem struct {
	ID          int64  `json:"id"`
	RunID       int64  `json:"run_id"`
	Type        string `json:"type"`
	Index       int    `json:"index"`
	PageURL     string `json:"page_url"`
	Status      string `json:"status"` // "success" or the failure reason
	Message     string `json:"message"`
	DownloadURL string `json:"download_url"`
}
