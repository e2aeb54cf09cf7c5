package model

import "time"

// PerformanceMetric is one Web Vitals sample reported by the front-end.
type PerformanceMetric struct {
	ID         int64     `json:"id"`
	Page       string    `json:"page"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	Rating     string    `json:"rating"`
	UserAgent  string    `json:"user_agent"`
	RecordedAt time.Time `json:"recorded_at"`
}

// PerformanceMetricRequest is the JSON body of the metrics ingestion endpoint.
type PerformanceMetricRequest struct {
	Page    string                 `json:"page" binding:"required,max=500,printascii"`
	Metrics []PerformanceSampleReq `json:"metrics" binding:"required,min=1,max=20,dive"`
}

type PerformanceSampleReq struct {
	Name   string  `json:"name" binding:"required,oneof=LCP FID CLS FCP TTFB INP"`
	Value  float64 `json:"value" binding:"min=0"`
	Rating string  `json:"rating" binding:"omitempty,oneof=good needs-improvement poor"`
}

// MetricSummary aggregates one metric on one page over a period.
type MetricSummary struct {
	Page    string  `json:"page"`
	Metric  string  `json:"metric"`
	Samples int     `json:"samples"`
	P75     float64 `json:"p75"`
	Average float64 `json:"average"`
	Good    int     `json:"good"`
	Poor    int     `json:"poor"`
}
