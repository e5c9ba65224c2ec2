package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`           // Listen port
	CORSOrigins    []string `yaml:"corsOrigins"`    // Allowed CORS origins
	MaxUploadBytes int64    `yaml:"maxUploadBytes"` // Upload size cap for document ingestion
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Address    string `yaml:"address"`    // Redis address (e.g. "localhost:6379")
	Password   string `yaml:"password"`   // Redis password
	DB         int    `yaml:"db"`         // Redis database number
	ContextTTL int    `yaml:"contextTTL"` // Conversation context cache TTL (seconds)
}

// MySQLConfig holds the MySQL connection settings.
type MySQLConfig struct {
	Address         string `yaml:"address"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxOpenConns    int    `yaml:"maxOpenConns"`
	MaxIdleConns    int    `yaml:"maxIdleConns"`
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // seconds
}

// MinIOConfig holds the MinIO object storage settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Secure    bool   `yaml:"secure"`
}

// MongoConfig holds the MongoDB connection settings.
type MongoConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// KafkaConfig holds the Kafka connection settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`   // Memory extraction topic
	GroupID string   `yaml:"groupID"` // Consumer group for the extraction worker
}

// DatabaseConfigs groups the configuration of every backing store.
type DatabaseConfigs struct {
	Redis   RedisConfig `yaml:"redis"`
	MySQL   MySQLConfig `yaml:"mysql"`
	MinIO   MinIOConfig `yaml:"minio"`
	MongoDB MongoConfig `yaml:"mongodb"`
	Kafka   KafkaConfig `yaml:"kafka"`
}

// ModelConfig describes one chat model exposed to clients.
type ModelConfig struct {
	ID    string `yaml:"id"`    // Provider-side model identifier
	Label string `yaml:"label"` // Human-readable name shown in the model picker
}

// LLMConfig holds the chat model provider settings.
type LLMConfig struct {
	Provider     string        `yaml:"provider"` // "openai" (OpenAI-compatible, e.g. Groq) or "gemini"
	APIKey       string        `yaml:"apiKey"`
	BaseURL      string        `yaml:"baseURL"` // Override for OpenAI-compatible endpoints
	DefaultModel string        `yaml:"defaultModel"`
	TitleModel   string        `yaml:"titleModel"` // Cheap model used for conversation titles
	Models       []ModelConfig `yaml:"models"`     // Catalog of selectable models
	Gemini       GeminiConfig  `yaml:"gemini"`
}

// GeminiConfig holds the Gemini provider settings.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// EmbeddingConfig holds the embedding provider settings.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "ollama" or "openai"
	BaseURL  string `yaml:"baseURL"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// SearchConfig holds the web search provider settings.
type SearchConfig struct {
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseURL"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxRetries     int    `yaml:"maxRetries"`
	MaxResults     int    `yaml:"maxResults"`
	FetchTopPages  bool   `yaml:"fetchTopPages"` // Fetch full article content for top results on forced search
}

// RAGConfig holds the document retrieval settings.
type RAGConfig struct {
	ChunkSize      int     `yaml:"chunkSize"`
	ChunkOverlap   int     `yaml:"chunkOverlap"`
	TopK           int     `yaml:"topK"`
	ScoreThreshold float64 `yaml:"scoreThreshold"` // Minimum cosine score for a chunk to count
}

// MemoryConfig holds the long-term memory settings.
type MemoryConfig struct {
	DedupWindow     int `yaml:"dedupWindow"`     // Recent facts scanned for duplicates on save
	MaxFacts        int `yaml:"maxFacts"`        // Per-user cap enforced by the cleanup job
	ContextLimit    int `yaml:"contextLimit"`    // Facts rendered into the prompt context
	CleanupInterval int `yaml:"cleanupInterval"` // Minutes between cleanup runs (0 disables)
}

// AuthConfig holds the JWT authentication settings.
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"`
	TokenTTL  int    `yaml:"tokenTTL"` // Token validity in seconds
}

// LoggerConfig holds the logger settings.
type LoggerConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// AppInfo holds basic application metadata.
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App       AppInfo         `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	RAG       RAGConfig       `yaml:"rag"`
	Memory    MemoryConfig    `yaml:"memory"`
	Logger    LoggerConfig    `yaml:"logger"`
	Databases DatabaseConfigs `yaml:"databases"`
}

// LoadConfig reads and parses the YAML configuration file at path.
// Secrets may be supplied through environment variables, which take
// precedence over the file contents.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnvOverrides lets deployments keep secrets out of the YAML file.
func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.Gemini.APIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JwtSecret = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Databases.MinIO.SecretKey = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		c.Databases.MySQL.Password = v
	}
	if v := os.Getenv("MONGO_PASSWORD"); v != "" {
		c.Databases.MongoDB.Password = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 20 << 20
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 1000
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 200
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = 5
	}
	if c.RAG.ScoreThreshold == 0 {
		c.RAG.ScoreThreshold = 0.3
	}
	if c.Memory.DedupWindow == 0 {
		c.Memory.DedupWindow = 50
	}
	if c.Memory.MaxFacts == 0 {
		c.Memory.MaxFacts = 200
	}
	if c.Memory.ContextLimit == 0 {
		c.Memory.ContextLimit = 20
	}
	if c.Search.TimeoutSeconds == 0 {
		c.Search.TimeoutSeconds = 30
	}
	if c.Search.MaxRetries == 0 {
		c.Search.MaxRetries = 2
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 5
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://api.tavily.com"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 86400
	}
}
