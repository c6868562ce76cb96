package listing

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"vin-decoder/internal/store"
)

// Finder is the read-only listing surface the detector consumes.
type Finder interface {
	FindListingByVin(vin string) (*store.Listing, error)
}

// DuplicateInfo reports whether a VIN already belongs to a published listing.
type DuplicateInfo struct {
	IsDuplicate       bool
	ExistingVehicleID string
	ExistingSlug      string
}

// Detector checks decoded VINs against existing listings.
type Detector struct {
	listings Finder
}

// NewDetector constructs a duplicate detector.
func NewDetector(listings Finder) *Detector {
	return &Detector{listings: listings}
}

// Check looks up the VIN among existing listings. Lookup failures are logged
// and degrade to "not a duplicate" rather than failing the decode.
func (d *Detector) Check(vin string) DuplicateInfo {
	if d == nil || d.listings == nil {
		return DuplicateInfo{}
	}
	existing, err := d.listings.FindListingByVin(vin)
	if err != nil {
		logrus.WithError(err).WithField("vin", vin).Warn("listing lookup failed")
		return DuplicateInfo{}
	}
	if existing == nil {
		return DuplicateInfo{}
	}
	return DuplicateInfo{
		IsDuplicate:       true,
		ExistingVehicleID: existing.ID,
		ExistingSlug:      Slug(existing.Year, existing.Make, existing.Model, existing.ID),
	}
}

// Slug synthesizes the canonical listing slug: lowercase year-make-model with
// spaces dashed, double dashes collapsed, suffixed with the first 8 hex
// characters of the listing identifier. Deep links depend on this exact rule.
func Slug(year int, makeName, modelName, id string) string {
	base := strings.ToLower(fmt.Sprintf("%d-%s-%s", year, makeName, modelName))
	base = strings.ReplaceAll(base, " ", "-")
	for strings.Contains(base, "--") {
		base = strings.ReplaceAll(base, "--", "-")
	}
	base = strings.Trim(base, "-")

	suffix := hexPrefix(id, 8)
	if suffix == "" {
		return base
	}
	return base + "-" + suffix
}

func hexPrefix(id string, length int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(id) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			b.WriteRune(r)
			if b.Len() == length {
				break
			}
		}
	}
	return b.String()
}
