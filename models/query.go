package models

// QueryConfig holds the configuration for a DynamoDB index query
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key queries
	KeyName   string
	KeyValue  string

	// Optional range-key window, both bounds inclusive. Only valid on
	// indexes with a string range key.
	RangeKeyName string
	RangeStart   string
	RangeEnd     string

	// Optional equality filter applied after the key condition
	FilterName  string
	FilterValue string

	Limit int32

	// Descending returns newest-first on range-keyed indexes
	Descending bool
}
