package ports

import "go.trai.ch/catalyst/internal/core/domain"

// ConfigLoader defines the interface for loading the application configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration. An explicit path wins; otherwise the
	// config file is searched for upward from cwd, and defaults apply when
	// none is found.
	Load(cwd, path string) (*domain.Config, error)
}
