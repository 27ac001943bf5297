package graph

import "maps"

// DefaultUndefinedSentinel collects edges lacking the grouping annotation.
const DefaultUndefinedSentinel = "Undefined"

// SubgraphsByAnnotation splits g into one subgraph per value of the given
// annotation keyword. An edge with several values lands in each of their
// subgraphs. Edges without the annotation go to the sentinel subgraph when
// keepUndefined is set and are dropped otherwise. Every subgraph receives a
// copy of g's document metadata and namespace/annotation registries.
func SubgraphsByAnnotation(g *Graph, annotation string, keepUndefined bool, sentinel string) map[string]*Graph {
	result := make(map[string]*Graph)
	subgraph := func(value string) *Graph {
		sg, ok := result[value]
		if !ok {
			sg = New()
			result[value] = sg
		}
		return sg
	}

	for e := range g.Edges(nil) {
		values := edgeAnnotations(e).Values(annotation)
		if len(values) == 0 {
			if keepUndefined {
				copyEdge(subgraph(sentinel), g, e)
			}
			continue
		}
		for _, value := range values {
			copyEdge(subgraph(value), g, e)
		}
	}

	for _, sg := range result {
		updateMetadata(sg, g)
	}
	return result
}

// copyEdge copies e and the attributes of its endpoints from src into dst,
// keeping e's key.
func copyEdge(dst, src *Graph, e Edge) {
	for _, n := range []Node{e.Source, e.Target} {
		if !dst.HasNode(n) {
			dst.insertNode(n, src.nodeData[n].Clone())
		}
	}
	dst.insertEdge(e.Source, e.Target, e.Key, e.Data.Clone())
}

// updateMetadata copies the document and registries of src into dst.
func updateMetadata(dst, src *Graph) {
	maps.Copy(dst.document, src.document)
	maps.Copy(dst.namespaceURL, src.namespaceURL)
	maps.Copy(dst.namespaceOWL, src.namespaceOWL)
	maps.Copy(dst.namespacePattern, src.namespacePattern)
	maps.Copy(dst.annotationURL, src.annotationURL)
	maps.Copy(dst.annotationOWL, src.annotationOWL)
	maps.Copy(dst.annotationPattern, src.annotationPattern)
	for k, values := range src.annotationList {
		dst.annotationList[k] = maps.Clone(values)
	}
}
