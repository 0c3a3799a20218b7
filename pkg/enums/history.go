package enums

import "fmt"

// InventoryStatus tracks a stored inventory row through its lifecycle.
type InventoryStatus string

const (
	InventoryStatusActive InventoryStatus = "active"
	InventoryStatusSold   InventoryStatus = "sold"
	InventoryStatusEnded  InventoryStatus = "ended"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusActive,
	InventoryStatusSold,
	InventoryStatusEnded,
}

// String implements fmt.Stringer.
func (s InventoryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InventoryStatus.
func (s InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInventoryStatus converts raw input into an InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}

// ProfileStatus is the account approval workflow state.
type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
	ProfileStatusRejected ProfileStatus = "rejected"
)

// String implements fmt.Stringer.
func (s ProfileStatus) String() string {
	return string(s)
}

// SubscriptionStatus mirrors the billing state stored on a profile.
type SubscriptionStatus string

const (
	SubscriptionStatusTrial   SubscriptionStatus = "trial"
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}
