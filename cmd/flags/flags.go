package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/confsource/confsource/common"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: "confsource",
	Usage: "add 'service' tag to logs",
}

var ModeFlag = &cli.StringFlag{
	Name:  "mode",
	Usage: "deployment mode: development, production, test or local (default: detect from APP_ENV)",
}
var SecretNameFlag = &cli.StringFlag{
	Name:  "secret-name",
	Usage: "AWS Secrets Manager secret to load",
}
var ParameterPrefixFlag = &cli.StringFlag{
	Name:  "parameter-prefix",
	Usage: "AWS SSM Parameter Store path prefix to load",
}
var RegionFlag = &cli.StringFlag{
	Name:  "region",
	Usage: "AWS region override",
}
var ForceRemoteFlag = &cli.BoolFlag{
	Name:  "force-remote",
	Value: false,
	Usage: "consult remote sources even in development mode",
}
var NoDecryptFlag = &cli.BoolFlag{
	Name:  "no-decrypt",
	Value: false,
	Usage: "skip decryption of SecureString parameters",
}

var VaultAddrFlag = &cli.StringFlag{
	Name:  "vault-addr",
	Usage: "Vault server address (falls back to VAULT_ADDR)",
}
var VaultMountFlag = &cli.StringFlag{
	Name:  "vault-mount",
	Value: "secret",
	Usage: "Vault KV v2 mount path",
}
var VaultPathFlag = &cli.StringFlag{
	Name:  "vault-path",
	Usage: "Vault secret path to load; enables the vault source",
}
var VaultTokenFlag = &cli.StringFlag{
	Name:  "vault-token",
	Usage: "Vault token (falls back to VAULT_TOKEN)",
}

var PrecedenceFlag = &cli.StringFlag{
	Name:  "precedence",
	Value: "merge",
	Usage: "merge precedence: aws-first, local-first or merge",
}
var FailOnAWSErrorFlag = &cli.BoolFlag{
	Name:  "fail-on-aws-error",
	Value: false,
	Usage: "abort resolution on remote source failure instead of degrading",
}
var NamespaceFlag = &cli.StringSliceFlag{
	Name:  "namespace",
	Usage: "namespace to resolve in isolation; repeatable",
}
var FormatFlag = &cli.StringFlag{
	Name:  "format",
	Value: "env",
	Usage: "output format: env, json or yaml",
}
var TimeoutSecondsFlag = &cli.Int64Flag{
	Name:  "timeout-seconds",
	Value: 30,
	Usage: "overall resolution timeout in seconds",
}

var LoggingFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}

var CommonFlags = append([]cli.Flag{
	ModeFlag,
	SecretNameFlag,
	ParameterPrefixFlag,
	RegionFlag,
	ForceRemoteFlag,
	NoDecryptFlag,
	VaultAddrFlag,
	VaultMountFlag,
	VaultPathFlag,
	VaultTokenFlag,
	PrecedenceFlag,
	FailOnAWSErrorFlag,
	NamespaceFlag,
	TimeoutSecondsFlag,
}, LoggingFlags...)
