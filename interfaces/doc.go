// Package interfaces defines core interfaces and types for the multi-source
// configuration resolution engine, separating contract definitions from
// implementations.
//
// The package provides the contracts for the key components of the system:
//
// # Loader Contracts
//
// LocalLoader: Produces a configuration map from a local origin (process
// environment or dotenv files). Local loaders never fail by contract; a missing
// origin contributes an empty map.
//
// RemoteLoader: Produces a configuration map from a network-backed origin
// (AWS Secrets Manager, AWS SSM Parameter Store, HashiCorp Vault). Remote
// loaders may fail with a SourceError carrying the service's native error code.
//
// The split into two interfaces is deliberate: the failure mode of a loader is
// categorically part of its contract, not an implementation detail.
//
// # Configuration Types
//
// ConfigMap: The resolved key-value configuration produced by loaders and
// consumed by the merger and composition layers.
//
// Mode: The deployment mode (development, production, test, local), detected
// once per process from the APP_ENV environment variable and immutable
// afterwards.
//
// Precedence: The merge policy deciding which source wins when the same key
// appears in multiple maps (aws-first, local-first, merge).
//
// # Option Types
//
// RemoteOptions: Identifies the remote stores to consult (secret name,
// parameter path prefix, region override, Vault coordinates) and whether to
// force remote access in development mode.
//
// Options: Process-wide integration options (logging, fail-fast, fallback,
// precedence, namespaces) plus opaque pass-through BaseOptions. Options are
// plain values handed to constructors; there is no ambient or global lookup.
package interfaces
