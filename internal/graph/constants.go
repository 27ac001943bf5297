package graph

// Function is the biological type of a node.
type Function string

// Node functions.
const (
	Abundance         Function = "Abundance"
	Gene              Function = "Gene"
	RNA               Function = "RNA"
	MiRNA             Function = "miRNA"
	Protein           Function = "Protein"
	BiologicalProcess Function = "BiologicalProcess"
	Pathology         Function = "Pathology"
	Complex           Function = "Complex"
	Composite         Function = "Composite"
	Reaction          Function = "Reaction"
)

// Relation is the type of an asserted relationship between two nodes.
type Relation string

// Qualified relations. These carry citation, evidence and annotations.
const (
	Increases              Relation = "increases"
	DirectlyIncreases      Relation = "directlyIncreases"
	Decreases              Relation = "decreases"
	DirectlyDecreases      Relation = "directlyDecreases"
	CausesNoChange         Relation = "causesNoChange"
	Regulates              Relation = "regulates"
	PositiveCorrelation    Relation = "positiveCorrelation"
	NegativeCorrelation    Relation = "negativeCorrelation"
	Association            Relation = "association"
	Orthologous            Relation = "orthologous"
	AnalogousTo            Relation = "analogousTo"
	BiomarkerFor           Relation = "biomarkerFor"
	PrognosticBiomarkerFor Relation = "prognosticBiomarkerFor"
	RateLimitingStepOf     Relation = "rateLimitingStepOf"
	SubProcessOf           Relation = "subProcessOf"
)

// Unqualified relations. These are structural and deduplicated per node pair.
const (
	HasReactant   Relation = "hasReactant"
	HasProduct    Relation = "hasProduct"
	HasComponent  Relation = "hasComponent"
	HasVariant    Relation = "hasVariant"
	TranscribedTo Relation = "transcribedTo"
	TranslatedTo  Relation = "translatedTo"
	HasMember     Relation = "hasMember"
	IsA           Relation = "isA"
)

// unqualifiedEdgeCode reserves one negative edge key per unqualified relation.
var unqualifiedEdgeCode = map[Relation]EdgeKey{
	HasReactant:   -1,
	HasProduct:    -2,
	HasComponent:  -3,
	HasVariant:    -4,
	TranscribedTo: -5,
	TranslatedTo:  -6,
	HasMember:     -7,
	IsA:           -8,
}

// UnqualifiedKey returns the reserved edge key for an unqualified relation.
func UnqualifiedKey(r Relation) (EdgeKey, bool) {
	k, ok := unqualifiedEdgeCode[r]
	return k, ok
}

// IsUnqualified reports whether r is an unqualified relation.
func (r Relation) IsUnqualified() bool {
	_, ok := unqualifiedEdgeCode[r]
	return ok
}

// Attribute keys used in node and edge attribute bags.
const (
	FunctionKey    = "function"
	NamespaceKey   = "namespace"
	NameKey        = "name"
	LabelKey       = "label"
	DescriptionKey = "description"

	RelationKey    = "relation"
	CitationKey    = "citation"
	EvidenceKey    = "evidence"
	AnnotationsKey = "annotations"
)

// CitationTypePubMed is the citation type for PubMed references.
const CitationTypePubMed = "PubMed"

// Normalized document metadata keys.
const (
	MetadataName        = "name"
	MetadataVersion     = "version"
	MetadataDescription = "description"
	MetadataAuthors     = "authors"
	MetadataContact     = "contact"
	MetadataCopyright   = "copyright"
	MetadataDisclaimer  = "disclaimer"
	MetadataLicenses    = "licenses"
	MetadataProject     = "project"
)

// documentKeys maps the keys of a BEL "SET DOCUMENT" section to their
// normalized names.
var documentKeys = map[string]string{
	"Name":        MetadataName,
	"Version":     MetadataVersion,
	"Description": MetadataDescription,
	"Authors":     MetadataAuthors,
	"ContactInfo": MetadataContact,
	"Copyright":   MetadataCopyright,
	"Disclaimer":  MetadataDisclaimer,
	"Licenses":    MetadataLicenses,
	"Project":     MetadataProject,
}

// LibraryVersion is recorded on every graph built by this package.
const LibraryVersion = "0.4.0"
