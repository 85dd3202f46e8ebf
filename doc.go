// Package nestquery is a hybrid property search engine. It fuses dense
// vector similarity with graph-derived connectivity signals and feature
// boosts to rank property listings for natural-language queries.
//
// The Engine orchestrates four backing services: an embedding provider
// (pkg/embedder), a vector store (pkg/vectorstore), a relationship graph
// (pkg/graph), and a listing catalog (pkg/catalog). Embedding generation
// for the catalog and construction of the relationship graph happen
// outside this module; nestquery consumes both at query time.
//
// Basic usage:
//
//	engine, err := nestquery.NewEngine(embedClient, vectorStore, collector, catalogStore, nestquery.Options{})
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	resp, err := engine.Search(ctx, &types.SearchQuery{
//		Text:       "sunny two-bedroom near the waterfront",
//		TopK:       10,
//		GraphBoost: true,
//	})
package nestquery
