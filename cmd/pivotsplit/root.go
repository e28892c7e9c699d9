package main

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/pivotsplit"
)

const envPrefix = "PIVOTSPLIT"

// globals are the persistent flags shared by every command.
type globals struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	g := &globals{v: viper.New()}

	root := &cobra.Command{
		Use:   "pivotsplit",
		Short: "Extract graph components from a tangled de Bruijn graph based on pivot k-mers",
		Long: `pivotsplit grows one component around every class-1 pivot k-mer of a
de Bruijn graph, resolving branches with a short lookahead that weighs
class-1 against class-2 pivot evidence.

Every flag can also be set in a config file (--config) or through a
PIVOTSPLIT_ prefixed environment variable, e.g. PIVOTSPLIT_MIN_PIVOTS=3.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")

	root.AddCommand(
		newExtractCmd(g),
		newInspectCmd(g),
		newCompareCmd(g),
		newStoreCmd(g),
	)
	return root
}

// init binds the invoked command's flags and reads the config file.
func (g *globals) init(cmd *cobra.Command) error {
	v := g.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return nil
}

func (g *globals) logger() (*pivotsplit.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	switch format := g.v.GetString("log-format"); format {
	case "text":
		return pivotsplit.NewTextLogger(level), nil
	case "json":
		return pivotsplit.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// unmarshal decodes the bound settings into out. Byte sizes accept
// human-readable values such as "4GiB".
func (g *globals) unmarshal(out any) error {
	return g.v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		byteSizeHook,
	)))
}

var int64Type = reflect.TypeOf(int64(0))

var byteSizeHook mapstructure.DecodeHookFuncType = func(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != int64Type {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" {
		return int64(0), nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return nil, err
	}
	return int64(n), nil
}
