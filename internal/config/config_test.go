package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Mongo: MongoConfig{
			URI:                   "mongodb://localhost:27017",
			Database:              "recruiting",
			JobCollection:         "jobcollections",
			ProfileCollection:     "userprofiles",
			ApplicationCollection: "applications",
		},
		Embedding: EmbeddingConfig{
			Model:      "text-embedding-3-large",
			Dimensions: 3072,
		},
		Search: SearchConfig{AppliedStrategy: "manual"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingMongoURI(t *testing.T) {
	cfg := validConfig()
	cfg.Mongo.URI = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing mongo.uri")
	}
}

func TestValidate_MissingCollections(t *testing.T) {
	cfg := validConfig()
	cfg.Mongo.ApplicationCollection = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing collection name")
	}
}

func TestValidate_InvalidDimensions(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Dimensions = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero embedding dimensions")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestValidate_AppliedStrategy(t *testing.T) {
	for _, strategy := range []string{"manual", "index"} {
		cfg := validConfig()
		cfg.Search.AppliedStrategy = strategy
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error for strategy %q: %v", strategy, err)
		}
	}

	cfg := validConfig()
	cfg.Search.AppliedStrategy = "hybrid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	expected := `search.applied_strategy must be "manual" or "index", got "hybrid"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Search.DefaultPageSize != 50 {
		t.Errorf("expected default page size 50, got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.MaxPageSize != 200 {
		t.Errorf("expected max page size 200, got %d", cfg.Search.MaxPageSize)
	}
	if cfg.Search.DefaultGlobalLimit != 50 {
		t.Errorf("expected default global limit 50, got %d", cfg.Search.DefaultGlobalLimit)
	}
	if cfg.Search.AppliedStrategy != "manual" {
		t.Errorf("expected default applied strategy manual, got %q", cfg.Search.AppliedStrategy)
	}
	if cfg.Embedding.MaxAttempts != 3 {
		t.Errorf("expected default max attempts 3, got %d", cfg.Embedding.MaxAttempts)
	}
	if cfg.Mongo.VectorIndex != "userprofiles_embedding_index" {
		t.Errorf("unexpected default vector index %q", cfg.Mongo.VectorIndex)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_MONGO_URI", "mongodb://db:27017")

	in := []byte("uri: ${TEST_MONGO_URI}\nname: ${TEST_UNSET:-fallback}\n")
	out := string(expandEnvVars(in))

	want := "uri: mongodb://db:27017\nname: fallback\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
