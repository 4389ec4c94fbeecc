// Package domain holds the pure qualification rules for leads.
// No persistence or transport concerns live here.
package domain

// CompanySize is the self-reported size bucket extracted from the
// conversation.
type CompanySize string

const (
	CompanySize1To10   CompanySize = "1-10"
	CompanySize11To50  CompanySize = "11-50"
	CompanySize51To200 CompanySize = "51-200"
	CompanySize200Plus CompanySize = "200+"
	CompanySizeUnknown CompanySize = "unknown"
)

// LeadType is the caller-declared intent path. It selects the scheduling
// link and is never re-derived.
type LeadType string

const (
	LeadTypeBusinessUpgrade LeadType = "business_upgrade"
	LeadTypeVentureStudio   LeadType = "venture_studio"
)

// Sentinel defaults applied when contact fields are missing at capture time.
const (
	NameAnonymous  = "Anonymous"
	CompanyUnknown = "Unknown"
)

// NormalizeCompanySize maps free-form model output onto the enum.
// Anything unrecognized becomes unknown rather than failing the capture.
func NormalizeCompanySize(value string) CompanySize {
	switch CompanySize(value) {
	case CompanySize1To10, CompanySize11To50, CompanySize51To200, CompanySize200Plus:
		return CompanySize(value)
	default:
		return CompanySizeUnknown
	}
}

// ValidLeadType reports whether value is a recognized intent path.
func ValidLeadType(value string) bool {
	switch LeadType(value) {
	case LeadTypeBusinessUpgrade, LeadTypeVentureStudio:
		return true
	default:
		return false
	}
}

// IsHighIntent derives the high-intent flag from company size and budget
// confirmation. Always recomputed at write time; caller input is not
// trusted for this field.
func IsHighIntent(size CompanySize, budgetConfirmed bool) bool {
	if budgetConfirmed {
		return true
	}
	return size == CompanySize51To200 || size == CompanySize200Plus
}
