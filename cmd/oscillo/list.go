package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dudk/oscillo/device"
	"github.com/dudk/oscillo/generator"
)

type listCommand struct{}

func (cmd *listCommand) Name() string {
	return "list"
}

func (cmd *listCommand) Help() string {
	return "Show available audio backends and generators"
}

func (cmd *listCommand) Register(fs *flag.FlagSet) {}

func (cmd *listCommand) Run(out io.Writer) error {
	fmt.Fprintf(out, "Audio backends:\n %v\n", strings.Join(device.Backends(), " "))
	fmt.Fprintf(out, "Generators:\n %v\n", strings.Join(generator.Names(), " "))
	return nil
}
