package enums

import (
	"fmt"
	"strings"
)

// DataKind identifies which marketplace export a CSV came from.
type DataKind string

const (
	DataKindInventory DataKind = "inventory"
	DataKindSold      DataKind = "sold"
	DataKindUnsold    DataKind = "unsold"
)

var validDataKinds = []DataKind{
	DataKindInventory,
	DataKindSold,
	DataKindUnsold,
}

// String implements fmt.Stringer.
func (k DataKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known DataKind.
func (k DataKind) IsValid() bool {
	for _, candidate := range validDataKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseDataKind converts raw input into a DataKind. "sales" is accepted for sold.
func ParseDataKind(value string) (DataKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "sales" {
		return DataKindSold, nil
	}
	for _, candidate := range validDataKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid data kind %q", value)
}
