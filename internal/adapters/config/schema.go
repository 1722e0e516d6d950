package config

// File represents the structure of the catalyst.yaml configuration file.
// Pointer and empty fields fall back to the built-in defaults.
type File struct {
	Version  string            `yaml:"version"`
	Server   ServerDTO         `yaml:"server"`
	Storage  StorageDTO        `yaml:"storage"`
	Upstream UpstreamDTO       `yaml:"upstream"`
	Runner   RunnerDTO         `yaml:"runner"`
	Jobs     map[string]JobDTO `yaml:"jobs"`
}

// ServerDTO configures the HTTP boundary.
type ServerDTO struct {
	Listen          string   `yaml:"listen"`
	AllowedOrigins  []string `yaml:"allowedOrigins"`
	MaxBodyBytes    *int64   `yaml:"maxBodyBytes"`
	ShutdownTimeout string   `yaml:"shutdownTimeout"`
}

// StorageDTO configures the session store.
type StorageDTO struct {
	Path          string `yaml:"path"`
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweepInterval"`
}

// UpstreamDTO configures the remote generation service.
type UpstreamDTO struct {
	URL               string   `yaml:"url"`
	Timeout           string   `yaml:"timeout"`
	RateLimit         *float64 `yaml:"rateLimit"`
	Burst             *int     `yaml:"burst"`
	MaxResponseBytes  *int64   `yaml:"maxResponseBytes"`
	MaxEntryBytes     *int64   `yaml:"maxEntryBytes"`
	MaxExtractedBytes *int64   `yaml:"maxExtractedBytes"`
}

// RunnerDTO configures worker launches.
type RunnerDTO struct {
	Program            string            `yaml:"program"`
	ScriptsDir         string            `yaml:"scriptsDir"`
	MaxConcurrent      *int              `yaml:"maxConcurrent"`
	InteractiveTimeout string            `yaml:"interactiveTimeout"`
	BatchTimeout       string            `yaml:"batchTimeout"`
	Env                map[string]string `yaml:"env"`
}

// JobDTO defines or overrides a worker job.
type JobDTO struct {
	Script  string `yaml:"script"`
	Input   string `yaml:"input"`
	Class   string `yaml:"class"`
	Timeout string `yaml:"timeout"`
}
