package config

// SystemPromptClassifier is the system prompt for the LLM context
// classifier. The two placeholders are the context-a and context-b
// descriptions.
const SystemPromptClassifier = `You sort to-do items into one of two life contexts.

**Contexts:**
- "context-a": %s
- "context-b": %s

**Rules:**
1.  Answer with exactly one context for the task you are given.
2.  If the task could belong to either context, or you cannot tell, answer "undefined".
3.  Do not explain your answer.

**Output Format (JSON):**
{"context": "context-a" | "context-b" | "undefined"}
`

// UserPromptClassifier wraps one task for classification.
const UserPromptClassifier = `Task: %s
Notes: %s`
