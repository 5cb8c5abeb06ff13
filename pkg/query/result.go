// Package query implements the retrieval-answer pipeline: condense the
// question against chat history, pull structured context from the graph
// and unstructured context from the vector index, and synthesize an
// answer. Partial retrieval failures degrade the answer instead of
// aborting it, and the result says exactly what was degraded.
package query

// Status describes how much of the retrieval pipeline contributed to an
// answer.
type Status string

const (
	// StatusComplete means both retrieval channels succeeded.
	StatusComplete Status = "complete"
	// StatusPartial means at least one retrieval channel failed and the
	// answer was produced from the remaining context.
	StatusPartial Status = "partial"
	// StatusFailed means no answer could be produced.
	StatusFailed Status = "failed"
)

// Reason names a pipeline stage that degraded the result.
type Reason string

const (
	ReasonQuestionRewrite  Reason = "question_rewrite"
	ReasonEntityExtraction Reason = "entity_extraction"
	ReasonGraphRetrieval   Reason = "graph_retrieval"
	ReasonVectorRetrieval  Reason = "vector_retrieval"
)

// Answer is the outcome of one question.
type Answer struct {
	// Text is the synthesized answer. Empty when Status is StatusFailed.
	Text string
	// Question is the condensed standalone question the pipeline ran with.
	Question string
	Status   Status
	// Reasons lists the stages that failed, in pipeline order. Empty when
	// Status is StatusComplete.
	Reasons []Reason
}
