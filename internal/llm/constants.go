package llm

// Provider constants
const (
	// DefaultProvider is the provider used when none is configured.
	DefaultProvider = ProviderGemini

	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

type providerDefaults struct {
	chat      string
	embedding string
}

// Anthropic has no embedding endpoint.
var defaults = map[string]providerDefaults{
	ProviderGemini:    {chat: "gemini-2.5-flash", embedding: "text-embedding-004"},
	ProviderOpenAI:    {chat: "gpt-5-mini", embedding: "text-embedding-3-small"},
	ProviderAnthropic: {chat: "claude-haiku-4-5"},
	ProviderOllama:    {chat: "llama3.2", embedding: "nomic-embed-text"},
}

// DefaultModelForProvider returns the default chat model for a provider.
func DefaultModelForProvider(provider string) string {
	return defaults[provider].chat
}

// DefaultEmbeddingModelForProvider returns the default embedding model for a
// provider, or "" when the provider has none.
func DefaultEmbeddingModelForProvider(provider string) string {
	return defaults[provider].embedding
}

// SupportsEmbeddings reports whether the provider can back the embedding
// classifier.
func SupportsEmbeddings(provider string) bool {
	return defaults[provider].embedding != ""
}
