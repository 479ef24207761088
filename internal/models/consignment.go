// Package models defines data structures and domain types.
package models

import "time"

// Status is the lifecycle state of a consignment.
type Status string

const (
	// StatusPending means the consignment has been registered but not picked up.
	StatusPending Status = "pending"
	// StatusInTransit means the consignment is on its way.
	StatusInTransit Status = "in_transit"
	// StatusDelivered means the consignment reached its destination.
	StatusDelivered Status = "delivered"
	// StatusCancelled means the consignment was cancelled.
	StatusCancelled Status = "cancelled"
)

// Statuses lists all statuses in display order.
var Statuses = []Status{StatusPending, StatusInTransit, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ConsignmentRecord is one shipment instance. Records are immutable once
// created; their lifecycle is owned by the record source.
type ConsignmentRecord struct {
	ID                  string     `json:"id"`
	SourceOfficeID      string     `json:"sourceOffice"`
	DestinationOfficeID string     `json:"destinationOffice"`
	ScheduledDelivery   time.Time  `json:"scheduledDelivery"`
	ActualDelivery      *time.Time `json:"actualDelivery,omitempty"`
	Status              Status     `json:"status"`
}

// Delivered reports whether the record has a completed delivery with a known
// actual-delivery timestamp.
func (r ConsignmentRecord) Delivered() bool {
	return r.Status == StatusDelivered && r.ActualDelivery != nil
}

// DeliveryDuration returns the time between scheduled and actual delivery.
// The second return is false for records without an actual delivery.
func (r ConsignmentRecord) DeliveryDuration() (time.Duration, bool) {
	if r.ActualDelivery == nil {
		return 0, false
	}
	return r.ActualDelivery.Sub(r.ScheduledDelivery), true
}

// DateRange is an inclusive reporting window. Both ends are required for any
// query.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Valid reports whether both ends are set and From does not follow To.
func (d DateRange) Valid() bool {
	return !d.From.IsZero() && !d.To.IsZero() && !d.From.After(d.To)
}

// Contains reports whether t falls inside the range.
func (d DateRange) Contains(t time.Time) bool {
	return !t.Before(d.From) && !t.After(d.To)
}
