package refineries

import (
	"fmt"
	"strings"

	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// Validate checks an update received from outside the process.
func (u Update) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.NewValidationError("id", u.ID, "id is required")
	}
	if !u.Status.Valid() {
		return errors.NewValidationError("status", u.Status, fmt.Sprintf("unknown status %q", u.Status))
	}
	if len(u.Description) > constants.MaxDescriptionLength {
		return errors.NewValidationError("description", len(u.Description), "description too long")
	}
	if len(u.IncidentVideoURLs) > constants.MaxVideoURLs {
		return errors.NewValidationError("incidentVideoUrls", len(u.IncidentVideoURLs), "too many evidence URLs")
	}
	return nil
}

// ValidateUpdates validates every update and rejects duplicate ids.
func ValidateUpdates(updates []Update) error {
	seen := make(map[string]bool, len(updates))
	for i, u := range updates {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("update %d: %w", i, err)
		}
		if seen[u.ID] {
			return errors.NewValidationError("id", u.ID, "duplicate update id")
		}
		seen[u.ID] = true
	}
	return nil
}

// Validate checks a refinery received from outside the process.
func (r Refinery) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.NewValidationError("id", r.ID, "id is required")
	}
	if r.Lat < -90 || r.Lat > 90 {
		return errors.NewValidationError("lat", r.Lat, "latitude out of range")
	}
	if r.Lng < -180 || r.Lng > 180 {
		return errors.NewValidationError("lng", r.Lng, "longitude out of range")
	}
	return nil
}

// ValidateList validates every refinery and rejects duplicate ids.
func ValidateList(list []Refinery) error {
	seen := make(map[string]bool, len(list))
	for _, r := range list {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return errors.NewValidationError("id", r.ID, "duplicate refinery id")
		}
		seen[r.ID] = true
	}
	return nil
}
