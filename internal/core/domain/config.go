package domain

import "time"

// Config is the validated application configuration.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Upstream UpstreamConfig
	Runner   RunnerConfig
	Jobs     map[string]Job
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Listen          string
	AllowedOrigins  []string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// StorageConfig configures the session store.
type StorageConfig struct {
	Path string
	// TTL is the age after which sessions are pruned. Zero keeps sessions forever.
	TTL           time.Duration
	SweepInterval time.Duration
}

// UpstreamConfig configures the remote generation service client.
type UpstreamConfig struct {
	URL     string
	Timeout time.Duration
	// RateLimit is the number of requests per second. Zero disables pacing.
	RateLimit        float64
	Burst            int
	MaxResponseBytes int64
	// MaxEntryBytes bounds the decompressed size of one archive entry.
	MaxEntryBytes int64
	// MaxExtractedBytes bounds the decompressed size of a whole archive.
	MaxExtractedBytes int64
}

// RunnerConfig configures how worker jobs are launched.
type RunnerConfig struct {
	Program            string
	ScriptsDir         string
	MaxConcurrent      int
	InteractiveTimeout time.Duration
	BatchTimeout       time.Duration
	Env                map[string]string
}

// TimeoutFor returns the time bound for a job.
func (c RunnerConfig) TimeoutFor(j Job) time.Duration {
	if j.Timeout > 0 {
		return j.Timeout
	}
	if j.Class == ClassBatch {
		return c.BatchTimeout
	}
	return c.InteractiveTimeout
}

// DefaultAllowedOrigins are the browser origins allowed by default.
func DefaultAllowedOrigins() []string {
	return []string{
		"https://career-catalyst-frontend.onrender.com",
		"http://localhost:3000",
		"http://localhost:5173",
	}
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Listen:          ":8080",
			AllowedOrigins:  DefaultAllowedOrigins(),
			MaxBodyBytes:    10 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Path:          DefaultSessionsPath(),
			TTL:           24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Upstream: UpstreamConfig{
			URL:               "http://localhost:8000",
			Timeout:           2 * time.Minute,
			RateLimit:         0,
			Burst:             1,
			MaxResponseBytes:  64 << 20,
			MaxEntryBytes:     64 << 20,
			MaxExtractedBytes: 128 << 20,
		},
		Runner: RunnerConfig{
			Program:            "python3",
			ScriptsDir:         ".",
			MaxConcurrent:      4,
			InteractiveTimeout: 2 * time.Minute,
			BatchTimeout:       5 * time.Minute,
			Env: map[string]string{
				"PYTHONIOENCODING": "UTF-8",
			},
		},
		Jobs: DefaultJobs(),
	}
}
