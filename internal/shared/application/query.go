package application

// Query represents a query that reads system state.
type Query interface {
	QueryName() string
}
