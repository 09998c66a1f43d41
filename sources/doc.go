// Package sources provides the configuration loaders and the mode-aware
// factory that selects them.
//
// The package offers loaders over every supported configuration origin:
//
//   - Process environment variables (always consulted)
//   - Dotenv files with ordered layering (.env.local, .env)
//   - AWS Secrets Manager secrets holding JSON objects
//   - AWS SSM Parameter Store subtrees with optional SecureString decryption
//   - HashiCorp Vault KV v2 secrets
//
// # Local and Remote Loaders
//
// Loaders come in two shapes matching their failure modes. Local loaders
// (environment, dotenv) implement interfaces.LocalLoader and never fail; a
// missing file or empty environment contributes an empty map. Remote loaders
// (Secrets Manager, Parameter Store, Vault) implement interfaces.RemoteLoader
// and surface failures as *interfaces.SourceError values carrying the
// service's native error code for downstream classification.
//
// # Loader Selection
//
// The Factory picks loaders per deployment mode:
//
//   - development: environment plus layered dotenv files; remote sources only
//     when RemoteOptions.ForceRemote is set
//   - production: environment plus .env; remote sources whenever their
//     identifiers are present
//   - test: environment only
//
// Within remote selection each loader is gated by its own identifier
// (SecretName, ParameterPrefix, Vault). Absent identifiers silently omit the
// loader; a loader whose client cannot be constructed is logged and skipped
// so one broken source never takes down the rest.
//
// # Namespacing
//
// Remote loaders expose Scoped(namespace), which returns a loader reading the
// namespaced variant of the same identifier (<identifier>/<namespace>). Local
// origins carry no namespace structure and are never scoped.
//
// # Usage Example
//
//	factory := sources.NewFactory(logger)
//	set := factory.LoadersFor(interfaces.ModeProduction, &interfaces.RemoteOptions{
//	    SecretName:      "myapp/production",
//	    ParameterPrefix: "/myapp/production",
//	})
//	for _, l := range set.Local {
//	    values := l.Load()
//	    // merge values
//	}
package sources
