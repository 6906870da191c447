package shipment

import (
	"strings"
	"time"
)

// OverallStatus groups Pathao's fine-grained order statuses.
type OverallStatus string

const (
	OverallStatusPicking    OverallStatus = "picking"
	OverallStatusInTransit  OverallStatus = "in_transit"
	OverallStatusDelivering OverallStatus = "delivering"
	OverallStatusDelivered  OverallStatus = "delivered"
	OverallStatusReturned   OverallStatus = "returned"
	OverallStatusCancelled  OverallStatus = "cancelled"
	OverallStatusOnHold     OverallStatus = "on_hold"
)

// IsTerminal reports whether the tracker can stop polling a shipment in this status.
func (s OverallStatus) IsTerminal() bool {
	switch s {
	case OverallStatusDelivered, OverallStatusReturned, OverallStatusCancelled:
		return true
	default:
		return false
	}
}

// Map from Pathao order status slugs to overall statuses.
var statusGroups = map[string]OverallStatus{
	"Pending":             OverallStatusPicking,
	"Pickup_Requested":    OverallStatusPicking,
	"Assigned_for_Pickup": OverallStatusPicking,
	"Picked":              OverallStatusPicking,
	"Pickup_Failed":       OverallStatusPicking,
	
	"At_the_Sorting_HUB":        OverallStatusInTransit,
	"In_Transit":                OverallStatusInTransit,
	"Received_at_Last_Mile_HUB": OverallStatusInTransit,
	
	"Assigned_for_Delivery": OverallStatusDelivering,
	
	"Delivered":        OverallStatusDelivered,
	"Partial_Delivery": OverallStatusDelivered,
	"Payment_Invoice":  OverallStatusDelivered,
	
	"Return":          OverallStatusReturned,
	"Paid_Return":     OverallStatusReturned,
	"Exchange":        OverallStatusReturned,
	"Delivery_Failed": OverallStatusReturned,
	
	"Pickup_Cancelled": OverallStatusCancelled,
	
	"On_Hold": OverallStatusOnHold,
}

// MapOrderStatus maps a Pathao order status to an overall status.
// Pathao sends either the slug or the label ("Pickup Requested"), both are accepted.
func MapOrderStatus(orderStatus string) OverallStatus {
	if overallStatus, exists := statusGroups[orderStatus]; exists {
		return overallStatus
	}
	if overallStatus, exists := statusGroups[strings.ReplaceAll(orderStatus, " ", "_")]; exists {
		return overallStatus
	}
	return OverallStatusOnHold
}

// Shipment links a bakery order to its Pathao consignment.
type Shipment struct {
	MerchantOrderID string        `json:"merchant_order_id"`
	ConsignmentID   string        `json:"consignment_id"`
	OrderStatus     string        `json:"order_status"`
	OverallStatus   OverallStatus `json:"overall_status"`
	DeliveryFee     float64       `json:"delivery_fee"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
