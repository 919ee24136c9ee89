package export

import (
	"github.com/clscor/clscorgi/vocabulary/clscor"
)

// Profile determines which ontology assertions are included in the export.
type Profile string

const (
	// ProfileSKOS includes only SKOS classes and properties.
	ProfileSKOS Profile = "skos"

	// ProfileCRM adds the CIDOC-CRM classes, rdfs:label and the P71 list
	// properties.
	ProfileCRM Profile = "crm"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description explains what the profile includes.
	Description string

	// IncludeCRM adds E55_Type, E32_Authority_Document, rdfs:label and the
	// P71 links.
	IncludeCRM bool
}

// Profiles contains all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileSKOS: {
		Name:        ProfileSKOS,
		Description: "SKOS only, for generic thesaurus consumers",
		IncludeCRM:  false,
	},
	ProfileCRM: {
		Name:        ProfileCRM,
		Description: "SKOS aligned with CIDOC-CRM, as published by CLSCor",
		IncludeCRM:  true,
	},
}

// GetProfile returns the configuration for a profile.
func GetProfile(profile Profile) (ProfileConfig, bool) {
	cfg, ok := Profiles[profile]
	return cfg, ok
}

// conceptTypes returns the rdf:type values of a concept under the profile.
func (p ProfileConfig) conceptTypes() []string {
	if p.IncludeCRM {
		return []string{clscor.ClassType, clscor.ClassConcept}
	}
	return []string{clscor.ClassConcept}
}

// schemeTypes returns the rdf:type values of a scheme under the profile.
func (p ProfileConfig) schemeTypes() []string {
	if p.IncludeCRM {
		return []string{clscor.ClassAuthorityDocument, clscor.ClassConceptScheme}
	}
	return []string{clscor.ClassConceptScheme}
}
