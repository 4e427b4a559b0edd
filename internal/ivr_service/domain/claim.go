package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ClaimStatus enumerates the states of a repair claim.
type ClaimStatus string

const (
	ClaimStatusSubmitted    ClaimStatus = "submitted"
	ClaimStatusInspection   ClaimStatus = "inspection"
	ClaimStatusPartsOrdered ClaimStatus = "parts_ordered"
	ClaimStatusInRepair     ClaimStatus = "in_repair"
	ClaimStatusCompleted    ClaimStatus = "completed"
	ClaimStatusCancelled    ClaimStatus = "cancelled"
)

// Spoken returns the status in a form suitable for text-to-speech.
func (s ClaimStatus) Spoken() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ClaimUpdate is one entry in a claim's status history.
type ClaimUpdate struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
	Notes  string    `json:"notes"`
}

// UnmarshalJSON accepts both RFC 3339 timestamps and bare YYYY-MM-DD dates,
// which is how update dates appear in stored history.
func (u *ClaimUpdate) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date   string `json:"date"`
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Status = raw.Status
	u.Notes = raw.Notes
	if raw.Date == "" {
		u.Date = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw.Date)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw.Date)
		if err != nil {
			return fmt.Errorf("invalid claim update date %q: %w", raw.Date, err)
		}
	}
	u.Date = t
	return nil
}

// Claim is a stored service-request record a verified caller may query.
// It is maintained externally and read-only to this service.
type Claim struct {
	ID                  string        `json:"id"`
	CustomerName        string        `json:"customer_name"`
	PhoneNumber         string        `json:"phone_number"`
	VehicleInfo         string        `json:"vehicle_info"`
	DamageDescription   string        `json:"damage_description,omitempty"`
	Status              ClaimStatus   `json:"status"`
	EstimatedCompletion *time.Time    `json:"estimated_completion,omitempty"`
	UpdatedAt           time.Time     `json:"updated_at"`
	Updates             []ClaimUpdate `json:"updates,omitempty"`
}

// LatestUpdate returns the update with the maximum date. The stored list is
// the authoritative history but is not guaranteed to be sorted, so list
// position must not be trusted. Returns nil when there is no history.
func (c *Claim) LatestUpdate() *ClaimUpdate {
	if len(c.Updates) == 0 {
		return nil
	}
	latest := &c.Updates[0]
	for i := 1; i < len(c.Updates); i++ {
		if c.Updates[i].Date.After(latest.Date) {
			latest = &c.Updates[i]
		}
	}
	return latest
}
