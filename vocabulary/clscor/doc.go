// Package clscor provides IRI constants and predicates for the CLSCor
// controlled vocabularies.
//
// CLSCor models literary corpora on top of CIDOC-CRM. Its controlled
// vocabularies (appellation types, identifier types, formats, ...) are
// published as SKOS concept schemes that are also CRM authority documents:
//
//	<https://clscor.io/entity/type/appellation/forename>
//	    a crm:E55_Type, skos:Concept ;
//	    skos:inScheme <https://clscor.io/entity/type/appellation> ;
//	    skos:prefLabel "forename"@en .
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/clscor/clscorgi/vocabulary/clscor"
package clscor
