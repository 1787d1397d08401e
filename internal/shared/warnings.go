package shared

import (
	"fmt"
	"sort"
	"strings"
)

// WarningType represents different types of warnings
type WarningType int

const (
	FactsProviderWarning WarningType = iota
	CoverArtWarning
	BonusScanWarning
	GenreWalkWarning
	CountryLookupWarning
	SynopsisWarning
)

// Warning represents a single warning with context
type Warning struct {
	Type    WarningType
	Message string
	Context string // Media/identifier context
	Details string // Additional details like error message
}

// WarningCollector collects non-fatal degradations during a resolution run.
// Optional facts that fail land here instead of aborting the record.
type WarningCollector struct {
	warnings []Warning
	enabled  bool
}

// NewWarningCollector creates a new warning collector
func NewWarningCollector(enabled bool) *WarningCollector {
	return &WarningCollector{
		warnings: make([]Warning, 0),
		enabled:  enabled,
	}
}

// AddWarning adds a warning to the collector
func (wc *WarningCollector) AddWarning(warningType WarningType, context, message, details string) {
	if !wc.enabled {
		return
	}

	warning := Warning{
		Type:    warningType,
		Message: message,
		Context: context,
		Details: details,
	}
	wc.warnings = append(wc.warnings, warning)
}

// AddFactsProviderWarning records a failed secondary-facts lookup.
func (wc *WarningCollector) AddFactsProviderWarning(artist, album, details string) {
	context := fmt.Sprintf("%s - %s", artist, album)
	wc.AddWarning(FactsProviderWarning, context, "Failed to fetch secondary facts", details)
}

// AddCoverArtWarning records a missing or failed cover art lookup.
func (wc *WarningCollector) AddCoverArtWarning(context, details string) {
	wc.AddWarning(CoverArtWarning, context, "Could not resolve cover art", details)
}

// AddBonusScanWarning records a bonus-edition scan that had to stop early.
func (wc *WarningCollector) AddBonusScanWarning(groupID, details string) {
	wc.AddWarning(BonusScanWarning, groupID, "Bonus edition scan incomplete", details)
}

// AddGenreWalkWarning records a genre canonicalization that never reached a root.
func (wc *WarningCollector) AddGenreWalkWarning(genreID, details string) {
	wc.AddWarning(GenreWalkWarning, genreID, "Genre did not fold into a root", details)
}

// AddCountryLookupWarning records a country code that could not be resolved.
func (wc *WarningCollector) AddCountryLookupWarning(entityID, details string) {
	wc.AddWarning(CountryLookupWarning, entityID, "Country code lookup failed", details)
}

// AddSynopsisWarning records a synopsis that no provider supplied.
func (wc *WarningCollector) AddSynopsisWarning(context, details string) {
	wc.AddWarning(SynopsisWarning, context, "No synopsis available", details)
}

// HasWarnings returns true if there are any warnings
func (wc *WarningCollector) HasWarnings() bool {
	return len(wc.warnings) > 0
}

// GetWarningCount returns the total number of warnings
func (wc *WarningCollector) GetWarningCount() int {
	return len(wc.warnings)
}

// GetWarningsByType returns warnings grouped by type
func (wc *WarningCollector) GetWarningsByType() map[WarningType][]Warning {
	grouped := make(map[WarningType][]Warning)
	for _, warning := range wc.warnings {
		grouped[warning.Type] = append(grouped[warning.Type], warning)
	}
	return grouped
}

// PrintSummary prints a formatted summary of all warnings
func (wc *WarningCollector) PrintSummary() {
	if !wc.HasWarnings() {
		return
	}

	ColorWarning.Printf("\n⚠️  Warning Summary (%d warnings):\n", len(wc.warnings))
	ColorWarning.Println(strings.Repeat("─", 50))

	grouped := wc.GetWarningsByType()

	// Sort warning types for consistent output
	var types []WarningType
	for warningType := range grouped {
		types = append(types, warningType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, warningType := range types {
		wc.printWarningTypeSection(warningType, grouped[warningType])
	}
}

// printWarningTypeSection prints warnings for a specific type
func (wc *WarningCollector) printWarningTypeSection(warningType WarningType, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}

	sectionTitle := wc.getWarningTypeTitle(warningType)
	ColorWarning.Printf("\n%s (%d):\n", sectionTitle, len(warnings))

	// Group similar warnings to avoid repetition
	contextCounts := make(map[string]int)
	for _, warning := range warnings {
		contextCounts[warning.Context]++
	}

	var contexts []string
	for context := range contextCounts {
		contexts = append(contexts, context)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		count := contextCounts[context]
		if count > 1 {
			ColorWarning.Printf("  • %s (×%d)\n", context, count)
		} else {
			ColorWarning.Printf("  • %s\n", context)
		}
	}
}

// getWarningTypeTitle returns a human-readable title for a warning type
func (wc *WarningCollector) getWarningTypeTitle(warningType WarningType) string {
	switch warningType {
	case FactsProviderWarning:
		return "Secondary Facts Lookup Failures"
	case CoverArtWarning:
		return "Cover Art Failures"
	case BonusScanWarning:
		return "Bonus Edition Scan Issues"
	case GenreWalkWarning:
		return "Genre Canonicalization Issues"
	case CountryLookupWarning:
		return "Country Code Lookup Failures"
	case SynopsisWarning:
		return "Missing Synopses"
	default:
		return "Other Warnings"
	}
}
