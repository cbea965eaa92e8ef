package graphdb

// Cypher query constants for Neo4j operations.
const (
	// CreateConstraintReferenceID ensures NamedReference(id) is unique and indexed.
	CreateConstraintReferenceID = `CREATE CONSTRAINT named_reference_id IF NOT EXISTS FOR (r:NamedReference) REQUIRE r.id IS UNIQUE`

	// UpsertReferenceNode merges a reference node by its ID and sets all properties.
	UpsertReferenceNode = `
UNWIND $refs AS ref
MERGE (r:NamedReference {id: ref.id})
SET r.key = ref.key,
    r.label = ref.label,
    r.scope = ref.scope,
    r.sheet = ref.sheet,
    r.cellRange = ref.cellRange,
    r.formula = ref.formula,
    r.file = ref.file,
    r.computed = ref.computed,
    r.runId = ref.runId
`

	// UpsertDependency merges a FEEDS relationship from a dependency to its dependent.
	UpsertDependency = `
UNWIND $edges AS edge
MATCH (src:NamedReference {id: edge.sourceId})
MATCH (tgt:NamedReference {id: edge.targetId})
MERGE (src)-[r:FEEDS]->(tgt)
SET r.runId = edge.runId
`

	// DeleteRun removes every node of a previous sync of the same run.
	DeleteRun = `
MATCH (r:NamedReference {runId: $runId})
DETACH DELETE r
`
)
