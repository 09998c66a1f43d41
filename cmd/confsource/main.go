package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/confsource/confsource/cmd/flags"
	"github.com/confsource/confsource/compose"
	"github.com/confsource/confsource/interfaces"
)

const usage string = "Resolve runtime configuration from environment variables, dotenv files and remote secret stores"

func main() {
	app := &cli.App{
		Name:  "confsource",
		Usage: usage,
		Flags: flags.CommonFlags,
		Commands: []*cli.Command{
			{
				Name:   "resolve",
				Usage:  "resolve the merged configuration and print it",
				Flags:  []cli.Flag{flags.FormatFlag},
				Action: runResolve,
			},
			{
				Name:   "namespaces",
				Usage:  "resolve each configured namespace in isolation",
				Flags:  []cli.Flag{flags.FormatFlag},
				Action: runNamespaces,
			},
			{
				Name:   "check",
				Usage:  "probe the selected sources and report their availability",
				Action: runCheck,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newResolver(cCtx *cli.Context) (*compose.Resolver, *interfaces.Options, error) {
	logger := flags.SetupLogger(cCtx)

	mode := interfaces.DetectMode()
	if raw := cCtx.String(flags.ModeFlag.Name); raw != "" {
		mode = interfaces.ParseMode(raw)
	}

	precedence, err := interfaces.ParsePrecedence(cCtx.String(flags.PrecedenceFlag.Name))
	if err != nil {
		logger.Error("Invalid precedence rule", "err", err)
		return nil, nil, err
	}

	opts := interfaces.NewOptions()
	opts.Precedence = precedence
	opts.FailOnAWSError = cCtx.Bool(flags.FailOnAWSErrorFlag.Name)
	opts.Namespaces = cCtx.StringSlice(flags.NamespaceFlag.Name)

	remote := interfaces.NewRemoteOptions()
	remote.SecretName = cCtx.String(flags.SecretNameFlag.Name)
	remote.ParameterPrefix = cCtx.String(flags.ParameterPrefixFlag.Name)
	remote.Region = cCtx.String(flags.RegionFlag.Name)
	remote.ForceRemote = cCtx.Bool(flags.ForceRemoteFlag.Name)
	remote.DecryptParameters = !cCtx.Bool(flags.NoDecryptFlag.Name)

	if vaultPath := cCtx.String(flags.VaultPathFlag.Name); vaultPath != "" {
		remote.Vault = &interfaces.VaultOptions{
			Address:    cCtx.String(flags.VaultAddrFlag.Name),
			MountPath:  cCtx.String(flags.VaultMountFlag.Name),
			SecretPath: vaultPath,
			Token:      cCtx.String(flags.VaultTokenFlag.Name),
		}
	}

	logger.Info("Resolving configuration",
		slog.String("mode", mode.String()),
		slog.String("precedence", precedence.String()))

	return compose.NewResolver(mode, opts, remote, logger), opts, nil
}

func resolutionContext(cCtx *cli.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cCtx.Int64(flags.TimeoutSecondsFlag.Name)) * time.Second
	return context.WithTimeout(cCtx.Context, timeout)
}

func runResolve(cCtx *cli.Context) error {
	resolver, _, err := newResolver(cCtx)
	if err != nil {
		return err
	}

	ctx, cancel := resolutionContext(cCtx)
	defer cancel()

	values, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	return printMap(os.Stdout, cCtx.String(flags.FormatFlag.Name), values)
}

func runNamespaces(cCtx *cli.Context) error {
	resolver, opts, err := newResolver(cCtx)
	if err != nil {
		return err
	}
	if len(opts.Namespaces) == 0 {
		return errors.New("at least one --namespace is required")
	}

	ctx, cancel := resolutionContext(cCtx)
	defer cancel()

	values, err := resolver.ResolveNamespaces(ctx)
	if err != nil {
		return err
	}
	return printNamespaces(os.Stdout, cCtx.String(flags.FormatFlag.Name), values)
}

func runCheck(cCtx *cli.Context) error {
	resolver, _, err := newResolver(cCtx)
	if err != nil {
		return err
	}

	ctx, cancel := resolutionContext(cCtx)
	defer cancel()

	report := resolver.CheckAvailability(ctx)
	fmt.Printf("available: %t\n", report.IsAvailable)
	fmt.Printf("sources responding: %d\n", report.FactoriesCount)
	for _, msg := range report.Errors {
		fmt.Printf("error: %s\n", msg)
	}

	if !report.IsAvailable {
		return cli.Exit("no configuration source is available", 1)
	}
	return nil
}

func printMap(w io.Writer, format string, values interfaces.ConfigMap) error {
	switch format {
	case "json", "yaml":
		return printMapAny(w, format, values)
	case "env":
		for _, key := range sortedKeys(values) {
			fmt.Fprintf(w, "%s=%s\n", key, envValue(values[key]))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func printNamespaces(w io.Writer, format string, values map[string]interfaces.ConfigMap) error {
	switch format {
	case "json", "yaml":
		return printMapAny(w, format, values)
	case "env":
		namespaces := make([]string, 0, len(values))
		for ns := range values {
			namespaces = append(namespaces, ns)
		}
		sort.Strings(namespaces)

		for i, ns := range namespaces {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# namespace: %s\n", ns)
			for _, key := range sortedKeys(values[ns]) {
				fmt.Fprintf(w, "%s=%s\n", key, envValue(values[ns][key]))
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func printMapAny(w io.Writer, format string, value any) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	case "yaml":
		out, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(out))
	}
	return nil
}

func sortedKeys(values interfaces.ConfigMap) []string {
	keys := values.Keys()
	sort.Strings(keys)
	return keys
}

// envValue renders a value for dotenv-style output. Strings pass through;
// structured values are JSON-encoded onto the single line.
func envValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
