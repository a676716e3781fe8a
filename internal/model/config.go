package model

import "time"

// Config is the complete runtime configuration for a verification run
type Config struct {
	HTTP        HTTPConfig         `yaml:"http" mapstructure:"http"`
	Fetch       FetchConfig        `yaml:"fetch" mapstructure:"fetch"`
	Search      SearchConfig       `yaml:"search" mapstructure:"search"`
	LLM         LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Analysis    AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Authority   AuthorityConfig    `yaml:"authority" mapstructure:"authority"`
	Credibility map[string]float64 `yaml:"credibility" mapstructure:"credibility"` // Source name -> weight, default 1.0
	Store       StoreConfig        `yaml:"store" mapstructure:"store"`
	Output      OutputConfig       `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound page fetching
type HTTPConfig struct {
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`                 // Total per-request budget
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"` // Dial budget
	UserAgent      string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRedirects   int           `yaml:"max_redirects" mapstructure:"max_redirects"`
	InsecureTLS    bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy      string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy     string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy        string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// FetchConfig controls the scraping stage
type FetchConfig struct {
	Backend           string  `yaml:"backend" mapstructure:"backend"` // http or browser
	MaxConcurrent     int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	ExtractWorkers    int     `yaml:"extract_workers" mapstructure:"extract_workers"`
	MaxContentChars   int     `yaml:"max_content_chars" mapstructure:"max_content_chars"`
	RespectRobots     bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per domain, 0 disables
	BrowserBin        string  `yaml:"browser_bin,omitempty" mapstructure:"browser_bin"`
}

// SearchConfig selects and tunes the search provider
type SearchConfig struct {
	Provider   string        `yaml:"provider" mapstructure:"provider"` // google or newsfeed
	MaxResults int           `yaml:"max_results" mapstructure:"max_results"`
	Lang       string        `yaml:"lang,omitempty" mapstructure:"lang"`
	APIKey     string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	CX         string        `yaml:"cx,omitempty" mapstructure:"cx"`
	BaseURL    string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	CacheTTL   time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	CacheDir   string        `yaml:"cache_dir,omitempty" mapstructure:"cache_dir"` // Enables a disk layer when set
}

// LLMConfig selects the judgment model
type LLMConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // huggingface, openai, deepseek, anthropic, gemini, ollama
	Model             string        `yaml:"model" mapstructure:"model"`
	APIKey            string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxTokens         int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature       float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxAttempts       int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffBase       time.Duration `yaml:"backoff_base" mapstructure:"backoff_base"`
	BackoffFactor     float64       `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = unlimited
}

// AnalysisConfig tunes the judgment stage
type AnalysisConfig struct {
	Workers      int `yaml:"workers" mapstructure:"workers"`
	ContentChars int `yaml:"content_chars" mapstructure:"content_chars"` // Article text sent to the model
}

// AuthorityConfig lists domains whose sources are always authoritative
type AuthorityConfig struct {
	Domains []string `yaml:"domains" mapstructure:"domains"`
}

// StoreConfig selects the record store
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // memory, postgres, sqlite
	DSN    string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultUserAgent mimics a desktop browser; many news sites reject bot agents
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:        10 * time.Second,
			ConnectTimeout: 4 * time.Second,
			UserAgent:      DefaultUserAgent,
			MaxBodyBytes:   2_000_000,
			MaxRedirects:   5,
		},
		Fetch: FetchConfig{
			Backend:         "http",
			MaxConcurrent:   10,
			MaxRetries:      1,
			ExtractWorkers:  8,
			MaxContentChars: 8000,
		},
		Search: SearchConfig{
			Provider:   "google",
			MaxResults: 4,
			CacheTTL:   300 * time.Second,
		},
		LLM: LLMConfig{
			Provider:      "huggingface",
			Model:         "deepseek-ai/DeepSeek-V3",
			MaxTokens:     512,
			Temperature:   0.8,
			Timeout:       60 * time.Second,
			MaxAttempts:   3,
			BackoffBase:   time.Second,
			BackoffFactor: 1.5,
		},
		Analysis: AnalysisConfig{
			Workers:      5,
			ContentChars: 3000,
		},
		Authority: AuthorityConfig{
			Domains: []string{"nasa.gov", "who.int", "reuters.com", "apnews.com", "bbc.co.uk"},
		},
		Credibility: DefaultCredibility(),
		Store: StoreConfig{
			Driver: "memory",
		},
	}
}

// DefaultCredibility is the built-in source weight table
func DefaultCredibility() map[string]float64 {
	return map[string]float64{
		"reuters":            1.3,
		"ap":                 1.3,
		"bbc":                1.3,
		"nytimes":            1.2,
		"washingtonpost":     1.2,
		"nasa":               1.2,
		"who":                1.2,
		"nature":             1.2,
		"science":            1.1,
		"nationalgeographic": 1.1,
		"cnn":                1.1,
	}
}
