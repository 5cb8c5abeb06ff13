// Package common holds the graph data model shared by the extraction
// pipeline and the storage backends.
package common

// Entity represents a node extracted from a text chunk. ID is the entity
// name as it appears in the text; Label is its type (PERSON, ORGANIZATION,
// BUSINESS, ...).
type Entity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Relation represents a directed edge between two extracted entities.
// Type is an ALL_CAPS relationship name chosen by the model.
type Relation struct {
	From string `json:"from"`
	Type string `json:"type"`
	To   string `json:"to"`
}

// GraphDocument is the extraction output for exactly one source chunk.
// ChunkID and Source tie every entity and relation back to the chunk they
// were extracted from. GraphDocuments are append-only; they are never
// mutated after creation, only superseded by a full graph clear.
type GraphDocument struct {
	ChunkID   string     `json:"chunk_id"`
	ChunkText string     `json:"chunk_text"`
	Source    string     `json:"source"`
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}
