package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"

	"devek/pkg/clipboard"
	"devek/pkg/config"
	"devek/pkg/errors"
	"devek/pkg/logger"
	"devek/pkg/usage"

	"github.com/spf13/cobra"
)

const (
	unknownValue = "unknown"
	kdlUsageFlag = "--kdl-usage"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

// Env bundles the process resources one invocation uses.
type Env struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Clipboard  clipboard.Writer
	LoadConfig func() (*config.Config, error)
}

func SystemEnv() Env {
	return Env{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Clipboard:  clipboard.NewSystem(),
		LoadConfig: config.Load,
	}
}

type options struct {
	contentType    *enumValue
	fallback       string
	fallbackFormat *enumValue
	width          int
	logLevel       *enumValue
}

var contentArg = usage.Arg{
	Name:    "CONTENT",
	Help:    "Content to set in the clipboard. Use `-` or omit to read one line from stdin.",
	Default: stdinSentinel,
}

func Execute() {
	os.Exit(int(Run(os.Args[1:], SystemEnv())))
}

// Run executes one invocation with args (without the program name) and
// returns the process exit code.
func Run(args []string, env Env) errors.ExitCode {
	if len(args) > 0 && args[0] == clipboard.ServeCommand {
		return errors.HandleReturn(env.Stderr, serveClipboard(env.Stdin))
	}

	root := newRootCmd(&options{}, env)

	if slices.Contains(args, kdlUsageFlag) {
		if err := usage.Generate(env.Stdout, root, []usage.Arg{contentArg}); err != nil {
			return errors.HandleReturn(env.Stderr, errors.Wrap(err, "failed to write usage"))
		}
		return errors.ExitCodeSuccess
	}

	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err := root.Execute()
	if errors.IsExitCode(err, errors.ExitCodeUsage) {
		fmt.Fprintln(env.Stderr, root.UsageString())
	}
	return errors.HandleReturn(env.Stderr, err)
}

func newRootCmd(opts *options, env Env) *cobra.Command {
	opts.contentType = newEnum("type", config.DefaultType, typeText, typeHTML)
	opts.fallbackFormat = newEnum("format", config.DefaultFallbackFormat, fallbackFormatText, fallbackFormatMarkdown)
	opts.logLevel = newEnum("level", config.DefaultLogLevel, config.LogLevels...)

	root := NewCommand("devek [content]",
		"Set text or HTML clipboard content",
		`Set text or HTML clipboard content from the command line.

By default the content is stored as HTML together with a plain-text
rendition for apps that cannot paste rich text. Use --type text to store
plain text only, or --fallback to provide the plain-text rendition yourself.`).
		WithExample(`  # Set plain text content
  devek --type text "Hello, World!"

  # Set HTML content
  devek --type html "<b>Hello, World!</b>"

  # Pipe content from stdin
  node -p '"Hello world".bold()' | devek --type html -`).
		WithVersion(versionString(), orUnknown(BuildTime), orUnknown(GitCommit)).
		WithMaxArgs(1).
		WithUsageErrors().
		WithRunE(func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, opts, env, args)
		}).
		Build()

	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return applyConfig(cmd, opts, env)
	}

	flags := root.Flags()
	flags.Var(opts.contentType, "type", "Clipboard format to store the content as (text, html)")
	flags.StringVar(&opts.fallback, "fallback", "", "Plain-text fallback for HTML entries instead of one derived from the content")
	flags.Var(opts.fallbackFormat, "fallback-format", "How the derived fallback is rendered (text, markdown)")
	flags.IntVar(&opts.width, "width", 0, "Wrap the derived text fallback at this many columns (0 = no wrapping; not valid with --fallback-format markdown)")
	flags.Var(opts.logLevel, "log-level", "Log level (debug, info, warn, error, off)")

	return root
}

// applyConfig fills every flag the user did not set from the config file and
// DEVEK_* environment, then configures logging. Config values are only
// checked for the flags that fall back to them.
func applyConfig(cmd *cobra.Command, opts *options, env Env) error {
	cfg := config.Default()
	if env.LoadConfig != nil {
		loaded, err := env.LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	defaults := []struct {
		flag  string
		value *enumValue
		cfg   string
	}{
		{"type", opts.contentType, cfg.Type},
		{"fallback-format", opts.fallbackFormat, cfg.FallbackFormat},
		{"log-level", opts.logLevel, cfg.LogLevel},
	}
	for _, d := range defaults {
		if flags.Changed(d.flag) {
			continue
		}
		if err := d.value.Set(d.cfg); err != nil {
			return errors.ConfigError(fmt.Sprintf("invalid %s: %v", d.flag, err))
		}
	}
	if !flags.Changed("width") {
		width, err := cfg.ParseWidth()
		if err != nil {
			return err
		}
		opts.width = width
	}
	if opts.width < 0 {
		return errors.UsageError(fmt.Errorf("--width must not be negative, got %d", opts.width))
	}
	if flags.Changed("width") && opts.width > 0 && opts.fallbackFormat.String() == fallbackFormatMarkdown {
		return errors.NewWithSuggestion(errors.ExitCodeUsage,
			"--width only applies to the text fallback format",
			"Drop --width or use --fallback-format text.")
	}

	logger.SetLevel(opts.logLevel.String())
	return nil
}

func versionString() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}
