package cmd

import (
	"devek/pkg/errors"

	"github.com/spf13/cobra"
)

type CommandBuilder struct {
	cmd *cobra.Command
}

func NewCommand(use, short, long string) *CommandBuilder {
	return &CommandBuilder{
		cmd: &cobra.Command{
			Use:     use,
			Short:   short,
			Long:    long,
			Example: "",
		},
	}
}

func (b *CommandBuilder) WithExample(example string) *CommandBuilder {
	b.cmd.Example = example
	return b
}

// WithVersion enables --version. The template adds build metadata.
func (b *CommandBuilder) WithVersion(version, buildTime, gitCommit string) *CommandBuilder {
	b.cmd.Version = version
	b.cmd.SetVersionTemplate("{{.Name}} version {{.Version}}\nBuilt: " + buildTime + "\nGit commit: " + gitCommit + "\n")
	return b
}

// WithMaxArgs rejects more than maxArgs positional arguments as a usage error.
func (b *CommandBuilder) WithMaxArgs(maxArgs int) *CommandBuilder {
	validate := cobra.MaximumNArgs(maxArgs)
	b.cmd.Args = func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.UsageError(err)
		}
		return nil
	}
	return b
}

func (b *CommandBuilder) WithRunE(fn func(*cobra.Command, []string) error) *CommandBuilder {
	b.cmd.RunE = fn
	return b
}

// WithUsageErrors reports flag parse failures as usage errors and leaves all
// error printing to the caller.
func (b *CommandBuilder) WithUsageErrors() *CommandBuilder {
	b.cmd.SilenceUsage = true
	b.cmd.SilenceErrors = true
	b.cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.UsageError(err)
	})
	return b
}

func (b *CommandBuilder) Build() *cobra.Command {
	return b.cmd
}
