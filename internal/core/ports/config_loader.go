package ports

import "go.trai.ch/forge/internal/core/domain"

// ConfigLoader defines the interface for loading the build description.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the build description found from cwd and resolves its collections.
	Load(cwd string) (*domain.BuildDescription, error)

	// LoadFile reads the build description at configPath and resolves its collections.
	LoadFile(configPath string) (*domain.BuildDescription, error)

	// DiscoverRoot walks up from cwd to find the directory containing forge.yaml.
	DiscoverRoot(cwd string) (string, error)
}
