package clscor

// Namespace is the base IRI for CLSCor type entities.
const Namespace = "https://clscor.io/entity/type/"

// Standard namespaces used by CLSCor vocabulary documents.
const (
	NamespaceCRM  = "http://www.cidoc-crm.org/cidoc-crm/"
	NamespaceSKOS = "http://www.w3.org/2004/02/skos/core#"
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Class IRIs.
const (
	// ClassConcept marks a controlled vocabulary term.
	ClassConcept = NamespaceSKOS + "Concept"

	// ClassConceptScheme marks a controlled vocabulary.
	ClassConceptScheme = NamespaceSKOS + "ConceptScheme"

	// ClassType is the CRM class every vocabulary term also carries.
	ClassType = NamespaceCRM + "E55_Type"

	// ClassAuthorityDocument is the CRM class every scheme also carries.
	ClassAuthorityDocument = NamespaceCRM + "E32_Authority_Document"
)

// Property IRIs.
const (
	RDFType = NamespaceRDF + "type"

	RDFSLabel = NamespaceRDFS + "label"

	SKOSPrefLabel     = NamespaceSKOS + "prefLabel"
	SKOSAltLabel      = NamespaceSKOS + "altLabel"
	SKOSDefinition    = NamespaceSKOS + "definition"
	SKOSInScheme      = NamespaceSKOS + "inScheme"
	SKOSHasTopConcept = NamespaceSKOS + "hasTopConcept"
	SKOSTopConceptOf  = NamespaceSKOS + "topConceptOf"
	SKOSExactMatch    = NamespaceSKOS + "exactMatch"

	// CRMLists links an authority document to the types it lists.
	CRMLists = NamespaceCRM + "P71_lists"

	// CRMIsListedIn is the inverse of CRMLists.
	CRMIsListedIn = NamespaceCRM + "P71i_is_listed_in"
)

// Appellation type vocabulary.
const (
	// AppellationScheme is the concept scheme for appellation types.
	AppellationScheme = Namespace + "appellation"

	AppellationForename         = AppellationScheme + "/forename"
	AppellationSurname          = AppellationScheme + "/surname"
	AppellationFullName         = AppellationScheme + "/full_name"
	AppellationPseudonym        = AppellationScheme + "/pseudonym"
	AppellationNameVariant      = AppellationScheme + "/name_variant"
	AppellationInitials         = AppellationScheme + "/initials"
	AppellationFullTitle        = AppellationScheme + "/full_title"
	AppellationMainTitle        = AppellationScheme + "/main_title"
	AppellationSubTitle         = AppellationScheme + "/sub_title"
	AppellationShortTitle       = AppellationScheme + "/short_title"
	AppellationAlternativeTitle = AppellationScheme + "/alternative_title"

	// AppellationArtificialTitle is used for titles minted by the pipeline
	// when a source carries none.
	AppellationArtificialTitle = AppellationScheme + "/artificial_title"
)

// Prefixes returns the prefix map used when serializing CLSCor vocabularies.
func Prefixes() map[string]string {
	return map[string]string{
		"crm":    NamespaceCRM,
		"skos":   NamespaceSKOS,
		"rdf":    NamespaceRDF,
		"rdfs":   NamespaceRDFS,
		"owl":    NamespaceOWL,
		"xsd":    NamespaceXSD,
		"clscor": Namespace,
	}
}
