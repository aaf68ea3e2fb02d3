package domain

// QueryType is the router's classification of an incoming query
type QueryType string

const (
	QueryTypeDocument QueryType = "document"
	QueryTypeWeb      QueryType = "web"
	QueryTypeHybrid   QueryType = "hybrid"
)
