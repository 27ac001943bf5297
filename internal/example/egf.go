// Package example builds small curated graphs used by the CLI and tests.
package example

import (
	"strings"

	"github.com/matsen/belgraph/internal/graph"
)

// Identifiers cited by the EGF graph.
const (
	PMIDAndrogenReceptor = "12855613"
	PMIDInterferon       = "9639405"
	PMIDTranslocation    = "10855792"
	PMIDNFKB             = "12560433"
)

const (
	// SpeciesAnnotation is the annotation keyword carried by every EGF edge.
	SpeciesAnnotation = "Species"
	// HumanTaxon is the NCBI taxonomy identifier of Homo sapiens.
	HumanTaxon = "9606"
)

var nfkbMembers = []string{"NFKB1", "NFKB2", "REL", "RELA", "RELB"}

// EGF returns a new graph describing EGF's downstream effects: androgen
// receptor induction, interferon repression, VCP translocation and the
// NF-kappaB anti-apoptotic pathway.
func EGF() (*graph.Graph, error) {
	g := graph.New(
		graph.WithName("EGF Pathway"),
		graph.WithVersion("1.0.0"),
		graph.WithDescription("The downstream effects of EGF"),
	)
	for key, value := range map[string]string{
		"Authors":     "Charles Tapley Hoyt",
		"ContactInfo": "charles.hoyt@scai.fraunhofer.de",
	} {
		if err := g.SetDocument(key, value); err != nil {
			return nil, err
		}
	}

	const artifactory = "https://arty.scai.fraunhofer.de/artifactory/bel/"
	g.NamespaceURL()["HGNC"] = artifactory + "namespace/hgnc-human-genes/hgnc-human-genes-20170725.belns"
	g.NamespaceURL()["CHEBI"] = artifactory + "namespace/chebi/chebi-20170725.belns"
	g.NamespaceURL()["GO"] = artifactory + "namespace/go-biological-process/go-biological-process-20170725.belns"
	g.AnnotationURL()["Confidence"] = artifactory + "annotation/confidence/confidence-1.0.0.belanno"
	g.AnnotationURL()[SpeciesAnnotation] = artifactory + "annotation/species-taxonomy-id/species-taxonomy-id-20170511.belanno"

	protein := func(name string) graph.Node {
		return g.AddSimpleNode(graph.Protein, "HGNC", name)
	}
	ar, egf := protein("AR"), protein("EGF")
	ifna1, ifng := protein("IFNA1"), protein("IFNG")
	vcp := protein("VCP")

	nfkb := g.AddSimpleNode(graph.Complex, "", complexName(nfkbMembers))
	for _, member := range nfkbMembers {
		if _, err := g.AddUnqualifiedEdge(nfkb, protein(member), graph.HasComponent); err != nil {
			return nil, err
		}
	}
	apoptosis := g.AddSimpleNode(graph.BiologicalProcess, "GO", "apoptotic process")

	human := graph.NewAnnotations(map[string][]string{SpeciesAnnotation: {HumanTaxon}})

	const (
		arEvidence = "This induction was not seen either when LNCaP cells were treated with flutamide or " +
			"conditioned medium were pretreated with antibody to the epidermal growth factor (EGF)"
		ifnEvidence = "DU-145 cells treated with 5000 U/ml of IFNgamma and IFN alpha, both reduced EGF " +
			"production with IFN gamma reduction more significant."
		vcpEvidence = "Although found predominantly in the cytoplasm and, less abundantly, in the nucleus, " +
			"VCP can be translocated from the nucleus after stimulation with epidermal growth factor."
		nfkbEvidence = "Valosin-containing protein (VCP; also known as p97) has been shown to be associated " +
			"with antiapoptotic function and metastasis via activation of the nuclear factor-kappaB " +
			"signaling pathway."
	)

	edges := []struct {
		u, v     graph.Node
		relation graph.Relation
		pmid     string
		evidence string
	}{
		{ar, egf, graph.Increases, PMIDAndrogenReceptor, arEvidence},
		{ifna1, egf, graph.Decreases, PMIDInterferon, ifnEvidence},
		{ifng, egf, graph.Decreases, PMIDInterferon, ifnEvidence},
		{egf, vcp, graph.Increases, PMIDTranslocation, vcpEvidence},
		{vcp, nfkb, graph.Increases, PMIDNFKB, nfkbEvidence},
		{nfkb, apoptosis, graph.Decreases, PMIDNFKB, nfkbEvidence},
	}
	for _, e := range edges {
		_, err := g.AddQualifiedEdge(e.u, e.v, e.relation, e.evidence, graph.PubMedCitation(e.pmid), human.Clone())
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

func complexName(members []string) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = "p(HGNC:" + m + ")"
	}
	return "complex(" + strings.Join(parts, ", ") + ")"
}
