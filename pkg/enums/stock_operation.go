package enums

import "fmt"

// StockOperation is the direction requested by a manual stock update.
type StockOperation string

const (
	StockOperationIncrease StockOperation = "increase"
	StockOperationDecrease StockOperation = "decrease"
)

var validStockOperations = []StockOperation{
	StockOperationIncrease,
	StockOperationDecrease,
}

// String implements fmt.Stringer.
func (s StockOperation) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockOperation.
func (s StockOperation) IsValid() bool {
	for _, candidate := range validStockOperations {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockOperation converts raw input into a StockOperation.
func ParseStockOperation(value string) (StockOperation, error) {
	for _, candidate := range validStockOperations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock operation %q", value)
}
