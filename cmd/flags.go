package cmd

import (
	"fmt"
	"slices"
	"strings"
)

// enumValue is a pflag.Value accepting one of a fixed set of strings.
type enumValue struct {
	value    string
	typeName string
	choices  []string
}

func newEnum(typeName, def string, choices ...string) *enumValue {
	return &enumValue{value: def, typeName: typeName, choices: choices}
}

func (e *enumValue) String() string {
	return e.value
}

func (e *enumValue) Set(s string) error {
	if !slices.Contains(e.choices, s) {
		return fmt.Errorf("%q is not one of %s", s, strings.Join(e.choices, ", "))
	}
	e.value = s
	return nil
}

func (e *enumValue) Type() string {
	return e.typeName
}

// Choices lists the accepted values for the usage generator.
func (e *enumValue) Choices() []string {
	return e.choices
}
