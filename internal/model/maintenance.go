package model

// TableSize is one row of the database size report.
type TableSize struct {
	Table      string `json:"table"`
	RowCount   int64  `json:"row_count"`
	TotalBytes int64  `json:"total_bytes"`
	Pretty     string `json:"pretty"`
}

// MaintenanceReport is the result of a database optimization run.
type MaintenanceReport struct {
	Analyzed      []string    `json:"analyzed"`
	Tables        []TableSize `json:"tables"`
	PrunedMetrics int64       `json:"pruned_metrics"`
}
