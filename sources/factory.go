package sources

import (
	"log/slog"

	"github.com/confsource/confsource/interfaces"
)

// Dotenv file layering per mode. Later paths override earlier ones.
var (
	developmentDotenvPaths = []string{".env.local", ".env"}
	productionDotenvPaths  = []string{".env"}
)

// LoaderSet is the factory's output: the selected loaders grouped by contract,
// each group in selection order. Local loaders always precede remote ones.
type LoaderSet struct {
	Local  []interfaces.LocalLoader
	Remote []interfaces.RemoteLoader
}

// Empty reports whether the set contains no loaders at all.
func (s *LoaderSet) Empty() bool {
	return len(s.Local) == 0 && len(s.Remote) == 0
}

// Factory selects configuration loaders per deployment mode and remote
// options. Selection is a pure function of its inputs: the same mode and
// options always yield the same loader lineup.
type Factory struct {
	log *slog.Logger
}

// NewFactory creates a loader factory.
func NewFactory(log *slog.Logger) *Factory {
	if log == nil {
		log = slog.Default()
	}
	return &Factory{log: log}
}

// LoadersFor applies the selection policy:
//
//   - test: environment only, never anything else
//   - production: environment, .env, and every remote source whose identifier
//     is present
//   - development (and local, which behaves identically): environment plus
//     layered .env.local/.env; remote sources only when ForceRemote is set
//
// Absent remote options in a permitting mode simply omit the remote loaders.
func (f *Factory) LoadersFor(mode interfaces.Mode, remote *interfaces.RemoteOptions) *LoaderSet {
	set := &LoaderSet{
		Local: []interfaces.LocalLoader{NewEnvLoader(f.log)},
	}

	switch mode {
	case interfaces.ModeTest:
		// Hermetic by policy.

	case interfaces.ModeProduction:
		set.Local = append(set.Local, NewDotenvLoader(productionDotenvPaths, f.log))
		if !remote.Empty() {
			set.Remote = f.remoteLoaders(remote)
		}

	default:
		set.Local = append(set.Local, NewDotenvLoader(developmentDotenvPaths, f.log))
		if !remote.Empty() && remote.ForceRemote {
			set.Remote = f.remoteLoaders(remote)
		}
	}

	f.log.Debug("Selected configuration loaders",
		slog.String("mode", mode.String()),
		slog.Int("local", len(set.Local)),
		slog.Int("remote", len(set.Remote)))

	return set
}

// remoteLoaders creates one loader per present identifier. A loader whose
// client cannot be constructed is logged and skipped so the remaining sources
// still participate.
func (f *Factory) remoteLoaders(remote *interfaces.RemoteOptions) []interfaces.RemoteLoader {
	var loaders []interfaces.RemoteLoader

	if remote.SecretName != "" {
		loader, err := NewSecretsManagerLoader(remote.SecretName, remote.Region, f.log)
		if err != nil {
			f.log.Warn("Failed to create secrets manager loader",
				"err", err,
				slog.String("secret", remote.SecretName))
		} else {
			loaders = append(loaders, loader)
		}
	}

	if remote.ParameterPrefix != "" {
		loader, err := NewParameterStoreLoader(remote.ParameterPrefix, remote.Region, remote.DecryptParameters, f.log)
		if err != nil {
			f.log.Warn("Failed to create parameter store loader",
				"err", err,
				slog.String("prefix", remote.ParameterPrefix))
		} else {
			loaders = append(loaders, loader)
		}
	}

	if remote.Vault != nil {
		loader, err := NewVaultLoader(remote.Vault, f.log)
		if err != nil {
			f.log.Warn("Failed to create vault loader",
				"err", err,
				slog.String("path", remote.Vault.SecretPath))
		} else {
			loaders = append(loaders, loader)
		}
	}

	return loaders
}
