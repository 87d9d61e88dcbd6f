package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/b11005/blink-idl-diff/internal/app"
)

const envPrefix = "IDLCOLLECT"

// state is shared by every command of one root command tree.
type state struct {
	fs        afero.Fs
	v         *viper.Viper
	cfg       app.Config
	log       *zap.Logger
	newLogger func(verbose bool) (*zap.Logger, error)
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// Execute runs the command line against the real filesystem.
func Execute() error {
	return newRootCmd(afero.NewOsFs(), productionLogger).Execute()
}

func newRootCmd(fs afero.Fs, newLogger func(bool) (*zap.Logger, error)) *cobra.Command {
	st := &state{fs: fs, v: viper.New(), log: zap.NewNop(), newLogger: newLogger}

	root := &cobra.Command{
		Use:   "idlcollect",
		Short: "Collect WebIDL interface definitions into JSON",
		Long: `idlcollect walks a WebIDL source tree, parses every definition file and
writes one JSON object keyed by interface name. Partial interfaces and
implements/includes statements are merged into their base interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := st.loadConfig(cmd.Flags()); err != nil {
				return usageError(err)
			}
			logger, err := st.newLogger(st.cfg.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			st.log = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = st.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError(fmt.Errorf("unknown command %q", args[0]))
			}
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	defaults := app.DefaultConfig()
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default ./idlcollect.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("cache", "", "parse cache database (disabled when empty)")
	pf.IntP("workers", "j", defaults.Workers, "parallel parse workers (0 or 1 parses sequentially)")
	pf.Int("indent", defaults.Indent, "JSON indent width (0 for compact output)")
	pf.String("relative-to", "", "directory FilePath values are relative to")
	pf.StringSlice("exclude", defaults.Exclude, "file names to skip during discovery")
	pf.String("suffix", defaults.Suffix, "definition file suffix")

	for _, key := range []string{"config", "verbose", "cache", "workers", "indent", "exclude", "suffix"} {
		_ = st.v.BindPFlag(key, pf.Lookup(key))
	}
	_ = st.v.BindPFlag("relative_to", pf.Lookup("relative-to"))

	root.AddCommand(
		newManifestCmd(st),
		newCollectCmd(st),
		newRunCmd(st),
		newNodesCmd(st),
		newDumpCmd(st),
		newWatchCmd(st),
		newConfigCmd(st),
		newCacheCmd(st),
	)
	return root
}

// loadConfig merges defaults, idlcollect.yaml, IDLCOLLECT_* variables and
// flags into st.cfg.
func (st *state) loadConfig(flags *pflag.FlagSet) error {
	v := st.v
	v.SetFs(st.fs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	defaults := app.DefaultConfig()
	v.SetDefault("suffix", defaults.Suffix)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("skip_dirs", defaults.SkipDirs)
	v.SetDefault("sort", defaults.Sort)
	v.SetDefault("relative_to", defaults.RelativeTo)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("indent", defaults.Indent)
	v.SetDefault("cache", defaults.Cache)
	v.SetDefault("verbose", defaults.Verbose)

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("idlcollect")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var cfg app.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}

func (st *state) printf(w io.Writer, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
