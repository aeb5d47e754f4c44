// Package usage describes a cobra command in the KDL usage-spec dialect so
// completion and documentation tooling can consume it.
package usage

import (
	"io"
	"strings"

	"github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Arg describes a positional argument. cobra has no model for these, so the
// caller supplies them.
type Arg struct {
	Name     string
	Help     string
	Default  string
	Required bool
}

// Chooser is implemented by flag values restricted to a fixed set.
type Chooser interface {
	Choices() []string
}

// Generate writes the KDL description of cmd and its positional args to w.
func Generate(w io.Writer, cmd *cobra.Command, args []Arg) error {
	cmd.InitDefaultHelpFlag()
	if cmd.Version != "" {
		cmd.InitDefaultVersionFlag()
	}

	doc := document.New()
	doc.AddNode(newNode("name", cmd.Name()))
	doc.AddNode(newNode("bin", cmd.Name()))
	if cmd.Version != "" {
		doc.AddNode(newNode("version", cmd.Version))
	}
	if cmd.Short != "" {
		doc.AddNode(newNode("about", cmd.Short))
	}
	if long := strings.TrimSpace(cmd.Long); long != "" {
		doc.AddNode(newNode("long_about", long))
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			doc.AddNode(flagNode(f))
		}
	})

	for _, a := range args {
		doc.AddNode(argNode(a))
	}

	return kdl.Generate(doc, w)
}

// newNode returns a node named name with string arguments.
func newNode(name string, args ...string) *document.Node {
	n := document.NewNode()
	n.SetName(name)
	for _, a := range args {
		n.AddArgument(a, "")
	}
	return n
}

func flagNode(f *pflag.Flag) *document.Node {
	name := "--" + f.Name
	if f.Shorthand != "" {
		name = "-" + f.Shorthand + " " + name
	}
	n := newNode("flag", name)

	help, longHelp, _ := strings.Cut(f.Usage, "\n")
	if help != "" {
		n.AddProperty("help", help, "")
	}
	if strings.TrimSpace(longHelp) != "" {
		n.AddProperty("long_help", f.Usage, "")
	}

	if f.Value.Type() == "bool" {
		return n
	}
	if f.DefValue != "" && f.DefValue != "[]" {
		n.AddProperty("default", f.DefValue, "")
	}

	value := newNode("arg", "<"+strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))+">")
	if c, ok := f.Value.(Chooser); ok {
		value.AddNode(newNode("choices", c.Choices()...))
	}
	n.AddNode(value)
	return n
}

func argNode(a Arg) *document.Node {
	name := "[" + a.Name + "]"
	if a.Required {
		name = "<" + a.Name + ">"
	}
	n := newNode("arg", name)
	if a.Help != "" {
		n.AddProperty("help", a.Help, "")
	}
	if a.Default != "" {
		n.AddProperty("default", a.Default, "")
	}
	return n
}
