// Package graphdb writes dependency graphs to Neo4j.
package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ukaji3/namedeps-go/internal/config"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

const batchSize = 500

// Client wraps the Neo4j driver and provides graph operations.
type Client struct {
	driver neo4j.DriverWithContext
}

// NewClient creates a new Neo4j client from configuration.
func NewClient(cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Client{driver: driver}, nil
}

// EnsureIndexes creates the uniqueness constraint on NamedReference(id).
func (c *Client) EnsureIndexes(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)
	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, CreateConstraintReferenceID, nil); err != nil {
			return struct{}{}, fmt.Errorf("create reference id constraint: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// Close releases the Neo4j driver resources.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Verify checks connectivity to Neo4j.
func (c *Client) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// SyncAnalysis replaces the graph stored for runID with the analysis'
// references and dependency edges.
func (c *Client) SyncAnalysis(ctx context.Context, runID string, a *models.Analysis) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, DeleteRun, map[string]any{"runId": runID})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("clear run %s: %w", runID, err)
	}

	refs := ReferenceParams(runID, a.References)
	for i := 0; i < len(refs); i += batchSize {
		batch := refs[i:min(i+batchSize, len(refs))]
		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertReferenceNode, map[string]any{"refs": batch})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync references batch %d: %w", i/batchSize, err)
		}
	}

	edges := EdgeParams(runID, a.Edges)
	for i := 0; i < len(edges); i += batchSize {
		batch := edges[i:min(i+batchSize, len(edges))]
		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertDependency, map[string]any{"edges": batch})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync edges batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// NodeID is the Neo4j identity of a reference within a run.
func NodeID(runID, key string) string {
	return runID + "|" + key
}

// ReferenceParams converts references into UNWIND parameters.
func ReferenceParams(runID string, refs []models.NamedReference) []map[string]any {
	params := make([]map[string]any, len(refs))
	for i, ref := range refs {
		params[i] = map[string]any{
			"id":        NodeID(runID, ref.Key),
			"key":       ref.Key,
			"label":     ref.Label,
			"scope":     ref.Scope,
			"sheet":     ref.Sheet,
			"cellRange": ref.CellRange,
			"formula":   ref.Formula,
			"file":      ref.File,
			"computed":  ref.IsComputed(),
			"runId":     runID,
		}
	}
	return params
}

// EdgeParams converts dependency edges into UNWIND parameters.
func EdgeParams(runID string, edges []models.Edge) []map[string]any {
	params := make([]map[string]any, len(edges))
	for i, e := range edges {
		params[i] = map[string]any{
			"sourceId": NodeID(runID, e.Source),
			"targetId": NodeID(runID, e.Target),
			"runId":    runID,
		}
	}
	return params
}
