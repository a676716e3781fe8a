package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/verinews/internal/model"
	"github.com/ppiankov/verinews/internal/worker"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	if err := registerDefaults(v, model.DefaultConfig()); err != nil {
		t.Fatalf("registerDefaults: %v", err)
	}
	bindEnv(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HF_TOKEN", "hf_test")
	t.Setenv("DATABASE_URL", "")

	cfg, err := loadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("http timeout = %v, want 10s", cfg.HTTP.Timeout)
	}
	if cfg.Search.MaxResults != 4 {
		t.Errorf("max results = %d, want 4", cfg.Search.MaxResults)
	}
	if cfg.LLM.Provider != "huggingface" {
		t.Errorf("llm provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "hf_test" {
		t.Errorf("llm api key = %q, want HF_TOKEN value", cfg.LLM.APIKey)
	}
	if got := cfg.Credibility["reuters"]; got != 1.3 {
		t.Errorf("reuters credibility = %v, want 1.3", got)
	}
	if len(cfg.Authority.Domains) != 5 {
		t.Errorf("authority domains = %v", cfg.Authority.Domains)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("VERINEWS_LLM_PROVIDER", "openai")
	t.Setenv("VERINEWS_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VERINEWS_HTTP_TIMEOUT", "30s")
	t.Setenv("VERINEWS_SEARCH_MAX_RESULTS", "8")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GOOGLE_CX", "engine")
	t.Setenv("DATABASE_URL", "postgres://localhost/verinews")

	cfg, err := loadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm = %s/%s", cfg.LLM.Provider, cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("llm api key = %q, want OPENAI_API_KEY value", cfg.LLM.APIKey)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("http timeout = %v, want 30s", cfg.HTTP.Timeout)
	}
	if cfg.Search.MaxResults != 8 {
		t.Errorf("max results = %d, want 8", cfg.Search.MaxResults)
	}
	if cfg.Search.APIKey != "google-key" || cfg.Search.CX != "engine" {
		t.Errorf("search credentials = %q/%q", cfg.Search.APIKey, cfg.Search.CX)
	}
	if cfg.Store.DSN != "postgres://localhost/verinews" {
		t.Errorf("store dsn = %q", cfg.Store.DSN)
	}
}

func TestApplyProviderEnv(t *testing.T) {
	env := map[string]string{
		"OLLAMA_BASE_URL":   "http://gpu:11434",
		"ANTHROPIC_API_KEY": "sk-ant",
		"DATABASE_URL":      "postgres://db",
	}
	getenv := func(k string) string { return env[k] }

	t.Run("ollama", func(t *testing.T) {
		cfg := model.DefaultConfig()
		cfg.LLM.Provider = "ollama"
		applyProviderEnv(&cfg, getenv)
		if cfg.LLM.BaseURL != "http://gpu:11434" {
			t.Errorf("base url = %q", cfg.LLM.BaseURL)
		}
		if cfg.LLM.APIKey != "" {
			t.Errorf("ollama should not get an api key, got %q", cfg.LLM.APIKey)
		}
	})

	t.Run("explicit key wins", func(t *testing.T) {
		cfg := model.DefaultConfig()
		cfg.LLM.Provider = "anthropic"
		cfg.LLM.APIKey = "from-config"
		cfg.Store.DSN = "sqlite.db"
		applyProviderEnv(&cfg, getenv)
		if cfg.LLM.APIKey != "from-config" {
			t.Errorf("api key = %q, want config value", cfg.LLM.APIKey)
		}
		if cfg.Store.DSN != "sqlite.db" {
			t.Errorf("dsn = %q, want config value", cfg.Store.DSN)
		}
	})

	t.Run("provider key", func(t *testing.T) {
		cfg := model.DefaultConfig()
		cfg.LLM.Provider = "anthropic"
		applyProviderEnv(&cfg, getenv)
		if cfg.LLM.APIKey != "sk-ant" {
			t.Errorf("api key = %q", cfg.LLM.APIKey)
		}
		if cfg.Store.DSN != "postgres://db" {
			t.Errorf("dsn = %q", cfg.Store.DSN)
		}
	})
}

func TestRenderDefaultConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := renderDefaultConfig(&buf); err != nil {
		t.Fatalf("renderDefaultConfig: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "# Verinews Configuration File") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "HF_TOKEN") {
		t.Error("missing credentials hint")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(buf.Bytes(), &cfg); err != nil {
		t.Fatalf("generated file is not valid YAML: %v", err)
	}
	if cfg.LLM.Model != "deepseek-ai/DeepSeek-V3" {
		t.Errorf("llm model = %q", cfg.LLM.Model)
	}
	if cfg.Search.CacheTTL != 300*time.Second {
		t.Errorf("cache ttl = %v", cfg.Search.CacheTTL)
	}
}

func TestMaskSecrets(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "hf_abcdefghijkl"
	cfg.Search.APIKey = "short"

	masked := maskSecrets(cfg)
	if masked.LLM.APIKey != "hf_a****" {
		t.Errorf("llm key = %q", masked.LLM.APIKey)
	}
	if masked.Search.APIKey != "****" {
		t.Errorf("search key = %q", masked.Search.APIKey)
	}
	if masked.Store.DSN != "" {
		t.Errorf("empty dsn should stay empty, got %q", masked.Store.DSN)
	}
	if cfg.LLM.APIKey != "hf_abcdefghijkl" {
		t.Error("maskSecrets modified its input")
	}
}

func TestResultFilename(t *testing.T) {
	tests := []struct {
		i     int
		claim string
		want  string
	}{
		{0, "NASA found water on Mars!", "001-nasa-found-water-on-mars.json"},
		{4, "  The WHO -- declared   it over. ", "005-the-who-declared-it-over.json"},
		{9, "???", "010-claim.json"},
		{1, "Café prices rose 5%", "002-café-prices-rose-5.json"},
	}
	for _, tt := range tests {
		if got := resultFilename(tt.i, tt.claim); got != tt.want {
			t.Errorf("resultFilename(%d, %q) = %q, want %q", tt.i, tt.claim, got, tt.want)
		}
	}

	long := resultFilename(0, strings.Repeat("word ", 40))
	if len(long) > len("001-")+61+len(".json") {
		t.Errorf("slug not truncated: %q", long)
	}
}

func TestReadArticles(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "articles.json")
	data := `[{"url":"https://reuters.com/a","title":"Water on Mars","content":"NASA said...","source":"reuters.com","published_date":"2025-05-01"}]`
	if err := os.WriteFile(good, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	articles, err := readArticles(good)
	if err != nil {
		t.Fatalf("readArticles: %v", err)
	}
	if len(articles) != 1 || articles[0].Source != "reuters.com" || articles[0].PublishedDate != "2025-05-01" {
		t.Errorf("articles = %+v", articles)
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readArticles(empty); err == nil {
		t.Error("expected error for empty article list")
	}

	if _, err := readArticles(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteBatchResults(t *testing.T) {
	dir := t.TempDir()
	results := []*worker.VerifyResult{
		{
			Claim:  "NASA found water on Mars",
			Result: &model.VerificationResult{Status: model.StatusSuccess, Claim: "NASA found water on Mars", Verdict: model.VerdictTrue, Confidence: 88},
		},
		{
			Claim: "not run",
			Error: os.ErrDeadlineExceeded,
		},
		{
			Claim:  "Search exploded today",
			Result: &model.VerificationResult{Status: model.StatusError, Claim: "Search exploded today", Message: "Search failed"},
			Error:  os.ErrClosed,
		},
	}

	success, failure := writeBatchResults(results, dir)
	if success != 1 || failure != 2 {
		t.Errorf("success/failure = %d/%d, want 1/2", success, failure)
	}

	for _, name := range []string{"001-nasa-found-water-on-mars.json", "003-search-exploded-today.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "002-not-run.json")); !os.IsNotExist(err) {
		t.Error("result without payload should not be written")
	}
}
