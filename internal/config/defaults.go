package config

// Axiom rule names accepted by PipelineConfig.AxiomRule.
const (
	AxiomRuleAbsolute = "absolute"
	AxiomRuleLength   = "length"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kaiseki/data/db/corpus.db"
	}
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "/usr/local/var/kaiseki/documents"
	}
	if cfg.Corpus.Extensions == nil {
		cfg.Corpus.Extensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx", ".html"}
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.MaxInputChars == 0 {
		cfg.Embedding.MaxInputChars = 8000
	}
	if cfg.Embedding.CacheTTLSecs == 0 {
		cfg.Embedding.CacheTTLSecs = 3600
	}
	if cfg.Embedding.RatePerSecond == 0 {
		cfg.Embedding.RatePerSecond = 5
	}
	if cfg.Embedding.RateBurst == 0 {
		cfg.Embedding.RateBurst = 5
	}
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = "openai"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gpt-4.1-mini"
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 1000
	}
	if cfg.Generation.TimeoutSecs == 0 {
		cfg.Generation.TimeoutSecs = 30
	}
	applyPipelineDefaults(&cfg.Pipeline)
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 800
	}
	if cfg.Retrieval.ChunkOverlap == 0 {
		cfg.Retrieval.ChunkOverlap = 80
	}
	if cfg.Retrieval.MinChunkChars == 0 {
		cfg.Retrieval.MinChunkChars = 100
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Composer.HighThreshold == 0 {
		cfg.Composer.HighThreshold = 0.55
	}
	if cfg.Composer.MixedThreshold == 0 {
		cfg.Composer.MixedThreshold = 0.30
	}
	if cfg.Composer.ExcerptMaxChars == 0 {
		cfg.Composer.ExcerptMaxChars = 2000
	}
}

func applyPipelineDefaults(p *PipelineConfig) {
	if p.AssumptionTriggers == nil {
		p.AssumptionTriggers = []string{"maybe", "probably", "guess", "think", "assume", "possibly", "likely"}
	}
	if p.UnknownTriggers == nil {
		p.UnknownTriggers = []string{"unknown", "unsure", "not sure", "unclear"}
	}
	if p.HypothesisTriggers == nil {
		p.HypothesisTriggers = []string{"could", "might"}
	}
	if p.SpeculationTriggers == nil {
		p.SpeculationTriggers = []string{"imagine"}
	}
	if p.RiskTriggers == nil {
		p.RiskTriggers = []string{"danger", "risk", "harm"}
	}
	if p.EthicalTriggers == nil {
		p.EthicalTriggers = []string{"ethical", "moral"}
	}
	if p.AbsoluteTriggers == nil {
		p.AbsoluteTriggers = []string{"always", "never"}
	}
	if p.AxiomRule == "" {
		p.AxiomRule = AxiomRuleAbsolute
	}
	if p.AxiomMinWords == 0 {
		p.AxiomMinWords = 12
	}
}
