package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/josephlewis42/elvi/core/config"
	"github.com/josephlewis42/elvi/core/eval"
	"github.com/josephlewis42/elvi/core/parse"
	"github.com/josephlewis42/elvi/core/registry"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	script    string
	trace     bool
	colorMode string
)

func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configuration := config.Default()
	if cfgPath != "" {
		var err error
		configuration, err = config.Load(afero.NewOsFs(), cfgPath)
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Couldn't load config %q", cfgPath)
		}
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("trace") {
		configuration.Trace = trace
	}
	if cmd.Flags().Changed("color") {
		configuration.Color = colorMode
	}
	return configuration, configuration.Validate()
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "elvi [-c SCRIPT | FILE] [ARG...]",
	Short: "A small POSIX shell",
	Long: `elvi runs shell scripts given inline with -c or read from a file.

Arguments after the script become the positional parameters $1, $2 and so on.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := run(cmd, configuration, args); err != nil {
			var exit *eval.ExitError
			if errors.As(err, &exit) {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", configuration.ShellName, err)
			return &eval.ExitError{Code: status.Of(err), Fatal: true}
		}
		return nil
	},
}

// run parses and runs the script selected by the flags and arguments.
func run(cmd *cobra.Command, configuration *config.Configuration, args []string) error {
	var (
		input  io.Reader
		params []string
	)
	switch {
	case cmd.Flags().Changed("command"):
		self, err := os.Executable()
		if err != nil {
			self = os.Args[0]
		}
		input = strings.NewReader(script)
		params = append([]string{self}, args...)
	case len(args) > 0:
		fd, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("can't open %s: %w", args[0], err)
		}
		defer fd.Close()
		input = fd
		params = args
	default:
		input = cmd.InOrStdin()
		params = []string{configuration.ShellName}
	}

	actions, err := parse.Parse(input, params[0])
	if err != nil {
		return err
	}

	shell, err := newShell(cmd, configuration)
	if err != nil {
		return err
	}
	shell.Vars.SetParams(params)
	shell.Name = params[0]

	if code := shell.Run(actions); !code.OK() {
		return &eval.ExitError{Code: code, Fatal: true}
	}
	return nil
}

// newShell builds a shell attached to the command's streams and the real
// filesystem.
func newShell(cmd *cobra.Command, configuration *config.Configuration) (*eval.Shell, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	pwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	fsys := afero.NewOsFs()
	store := vars.NewStore(configuration.StoreDefaults(home, pwd, Version))

	shell := eval.New(store, registry.Generate(fsys, store), fsys)
	shell.Stdin = cmd.InOrStdin()
	shell.Stdout = cmd.OutOrStdout()
	shell.Stderr = cmd.ErrOrStderr()
	shell.Color = configuration.Color
	shell.Prefix = configuration.ShellName
	if configuration.Trace {
		shell.Log = log.New(cmd.ErrOrStderr(), "[trace] ", 0)
	}
	return shell, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	var exit *eval.ExitError
	if err != nil && !errors.As(err, &exit) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%s: %v\n", rootCmd.Name(), err)
	}
	os.Exit(status.Of(err).Code())
}

func init() {
	flags := rootCmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVarP(&script, "command", "c", "", "run the given script instead of reading a file")
	flags.BoolVar(&trace, "trace", false, "log every statement and process launch to stderr")
	flags.StringVar(&colorMode, "color", eval.ColorAuto, "colorize diagnostics ("+strings.Join(eval.ColorModes, "|")+")")

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file or directory, the built in config is used if unset")
}
