package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/nestquery/nestquery/pkg/types"
)

// Neo4jReader implements Reader for a Neo4j relationship graph. Listings
// are `(:Listing {id})` nodes connected by SIMILAR_TO and NEAR_BY edges to
// other listings and HAS_FEATURE edges to `(:Feature {name})` nodes.
type Neo4jReader struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jReader creates a reader against a Neo4j (or bolt-compatible)
// graph store.
func NewNeo4jReader(uri, username, password, database string) (*Neo4jReader, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jReader{client: client, database: database}, nil
}

// Neighborhood returns the outgoing edges of one listing. A listing with no
// node in the graph yields empty edges, not an error.
func (r *Neo4jReader) Neighborhood(ctx context.Context, listingID string) (*types.GraphEdges, error) {
	if listingID == "" {
		return nil, types.NewValidationError("listing id cannot be empty")
	}

	session := r.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: r.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (l:Listing {id: $id})
			OPTIONAL MATCH (l)-[:SIMILAR_TO]->(s:Listing)
			WITH l, collect(DISTINCT s.id) AS similar
			OPTIONAL MATCH (l)-[:NEAR_BY]->(n:Listing)
			WITH l, similar, collect(DISTINCT n.id) AS near
			OPTIONAL MATCH (l)-[:HAS_FEATURE]->(f:Feature)
			RETURN similar, near, collect(DISTINCT f.name) AS features
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": listingID})
		if err != nil {
			return nil, err
		}

		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			// Listing not present in the graph.
			return nil, nil
		}
		return records[0], nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: neighborhood read for %s: %v", types.ErrGraphUnavailable, listingID, err)
	}
	if result == nil {
		return &types.GraphEdges{}, nil
	}

	record := result.(*db.Record)
	return &types.GraphEdges{
		SimilarTo: stringList(record, "similar"),
		NearBy:    stringList(record, "near"),
		Features:  stringList(record, "features"),
	}, nil
}

// Close shuts down the driver.
func (r *Neo4jReader) Close(ctx context.Context) error {
	return r.client.Close(ctx)
}

func stringList(record *db.Record, key string) []string {
	value, found := record.Get(key)
	if !found {
		return nil
	}
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
