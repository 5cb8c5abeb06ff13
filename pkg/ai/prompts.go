package ai

// CondensePrompt rewrites a follow-up question into a standalone question
// using the formatted chat transcript. Placeholders: chat history, follow-up
// question.
const CondensePrompt = `Given the following conversation and a follow-up question, rephrase the follow-up question to be a standalone question, in its original language.
Chat History:
%s
Follow-Up Input: %s
Standalone question:`

// EntitySystemPrompt instructs the model for structured entity extraction
// from a user question.
const EntitySystemPrompt = `You are extracting organization and person entities from the text.`

// EntityPrompt carries the question to extract entities from.
const EntityPrompt = `Use the given format to extract information from the following input: %s`

// AnswerPrompt is the final question-answering template. Placeholders:
// retrieval context, question.
const AnswerPrompt = `You are a customer support chatbot. Answer the question based only on the following context. Please understand the overall meaning of the question, even if there are spelling mistakes, and ensure that no negative words or sentences are used, like Unfortunately:
%s
Question: %s
Use natural language and be concise.
Answer:`

// ExtractSystemPrompt instructs the model to turn one text chunk into typed
// entities and relations. Placeholders: allowed entity types (repeated).
const ExtractSystemPrompt = `You are building a knowledge graph from documents.

# Task
Extract all entities and the relationships between them from the provided text.

# Rules
- Entity types must be one of: [%s].
- Entity ids are the entity names exactly as they appear in the text.
- Relationship types are short ALL_CAPS verbs or noun phrases with
  underscores (e.g. SIGNED_DEAL_WITH, WORKS_FOR, LOCATED_IN).
- Only extract relationships between entities identified in this text.
- Do not invent entities or relationships that are not stated in the text.

Return the result in the given structured format.`
