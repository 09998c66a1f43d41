package interfaces

// RemoteOptions selects and addresses the remote configuration sources. Each
// identifier is optional; a present identifier enables the corresponding
// loader in modes that permit remote access.
type RemoteOptions struct {
	// SecretName identifies a Secrets Manager secret holding a JSON object of
	// configuration values.
	SecretName string

	// ParameterPrefix is the Parameter Store path prefix to read recursively.
	ParameterPrefix string

	// Region overrides the SDK's default region resolution when set.
	Region string

	// ForceRemote enables remote sources in development mode, which otherwise
	// stays local-only.
	ForceRemote bool

	// DecryptParameters requests SecureString decryption for Parameter Store
	// reads. NewRemoteOptions defaults it to true.
	DecryptParameters bool

	// Vault addresses a Vault KV v2 secret as an additional remote source.
	Vault *VaultOptions
}

// NewRemoteOptions returns remote options with defaults applied.
func NewRemoteOptions() *RemoteOptions {
	return &RemoteOptions{DecryptParameters: true}
}

// HasAWS reports whether any AWS-backed source is addressed.
func (o *RemoteOptions) HasAWS() bool {
	return o != nil && (o.SecretName != "" || o.ParameterPrefix != "")
}

// Empty reports whether no remote source at all is addressed.
func (o *RemoteOptions) Empty() bool {
	return o == nil || (o.SecretName == "" && o.ParameterPrefix == "" && o.Vault == nil)
}

// VaultOptions addresses a single KV v2 secret.
type VaultOptions struct {
	// Address is the Vault server URL. Empty falls back to the client's
	// environment defaults.
	Address string

	// MountPath is the KV v2 mount (default "secret").
	MountPath string

	// SecretPath is the path of the secret under the mount.
	SecretPath string

	// Token authenticates the client. Empty falls back to the client's
	// environment defaults.
	Token string
}

// Options carries the integration-level switches a caller hands to the
// composition layer. Options are constructed once and never mutated; the
// engine reads them but does not interpret the Base block.
type Options struct {
	// EnableLogging turns the engine's internal logging on. When false all
	// internal loggers discard output.
	EnableLogging bool

	// FailOnAWSError makes a terminal remote failure abort resolution instead
	// of degrading to local sources. This is the sole fail-fast gate.
	FailOnAWSError bool

	// FallbackToLocal records the caller's fallback preference. It is carried
	// and forwarded; every classified failure kind falls back regardless.
	FallbackToLocal bool

	// Precedence selects the merge rule for multi-source resolution.
	Precedence Precedence

	// Namespaces lists the namespace labels for namespaced resolution.
	Namespaces []string

	// Base is opaque pass-through configuration forwarded to consumers.
	Base BaseOptions
}

// NewOptions returns integration options with defaults applied: logging on,
// graceful fallback, merge precedence.
func NewOptions() *Options {
	return &Options{
		EnableLogging:   true,
		FallbackToLocal: true,
		Precedence:      PrecedenceMerge,
	}
}

// BaseOptions is pass-through configuration the engine forwards without
// interpretation. Consumers one layer up give these fields meaning.
type BaseOptions struct {
	IsGlobal        bool
	Cache           bool
	ExpandVariables bool
}
