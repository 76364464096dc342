// Package bidder assigns candidate files to tool configurations and builds the targets.
package bidder

import (
	"path/filepath"
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Bidder runs the bidding phase of a build.
type Bidder struct {
	stater ports.FileStater
}

// New creates a Bidder that checks precompiled header prototypes through stater.
func New(stater ports.FileStater) *Bidder {
	return &Bidder{stater: stater}
}

// BuildTargets builds the targets of all collections, keyed by output file under objDir.
//
// Every file goes to the configuration with the highest positive bid. Ties go to the
// configuration registered first. Files nobody bids for are recorded as unclaimed, unless
// their collection is required. Files that map to the same output under the same
// configuration share one target.
func (b *Bidder) BuildTargets(
	objDir string,
	collections []domain.FileCollection,
	registry *domain.Registry,
) (*domain.TargetSet, error) {
	if err := validateCollections(collections, registry); err != nil {
		return nil, err
	}

	set := domain.NewTargetSet()
	if err := b.addPrototypes(set, objDir, registry); err != nil {
		return nil, err
	}

	configs := registry.Configs()
	for _, collection := range collections {
		for _, file := range collection.Files {
			cfg := selectConfig(configs, collection, file)
			if cfg == nil {
				if collection.Required {
					return nil, zerr.With(zerr.With(domain.ErrUnclaimedSource, "file", file), "collection", collection.Name)
				}
				set.AddUnclaimed(file)
				continue
			}

			output := filepath.Join(objDir, cfg.OutputFileName(filepath.Base(file)))
			if err := addTarget(set, cfg, output, file); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func validateCollections(collections []domain.FileCollection, registry *domain.Registry) error {
	for _, collection := range collections {
		for _, name := range collection.Tools {
			if _, ok := registry.Lookup(name); !ok {
				return zerr.With(zerr.With(domain.ErrUnknownToolConfig, "tool", name), "collection", collection.Name)
			}
		}
	}
	return nil
}

// addPrototypes checks every declared precompiled header prototype and makes it a target
// of its configuration. It runs before any other target is built.
func (b *Bidder) addPrototypes(set *domain.TargetSet, objDir string, registry *domain.Registry) error {
	for _, cfg := range registry.Configs() {
		pch, ok := cfg.(domain.Precompiler)
		if !ok || pch.PrecompilePrototype() == "" {
			continue
		}

		prototype := pch.PrecompilePrototype()
		isDir, err := b.stater.IsDir(prototype)
		if err != nil || isDir {
			return zerr.With(zerr.With(domain.ErrPCHPrototypeInvalid, "tool", cfg.Name()), "prototype", prototype)
		}

		output := filepath.Join(objDir, cfg.OutputFileName(filepath.Base(prototype)))
		if err := addTarget(set, cfg, output, prototype); err != nil {
			return err
		}
	}
	return nil
}

// selectConfig returns the first configuration with the highest positive bid for file, or nil.
func selectConfig(configs []domain.ToolConfig, collection domain.FileCollection, file string) domain.ToolConfig {
	var best domain.ToolConfig
	bestBid := 0
	for _, cfg := range configs {
		if !collection.Allows(cfg.Name()) {
			continue
		}
		if bid := cfg.Bid(file); bid > bestBid {
			best, bestBid = cfg, bid
		}
	}
	return best
}

func addTarget(set *domain.TargetSet, cfg domain.ToolConfig, output, file string) error {
	existing := set.Get(output)
	if existing == nil {
		set.Add(domain.NewTarget(cfg, output, file))
		return nil
	}

	if existing.Config.Name() != cfg.Name() {
		err := zerr.With(domain.ErrOutputConflict, "output", output)
		return zerr.With(err, "tools", []string{existing.Config.Name(), cfg.Name()})
	}
	if !slices.Contains(existing.Sources, file) {
		existing.Sources = append(existing.Sources, file)
	}
	return nil
}
