package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// CommonFlags are accepted by every command on the command line.
type CommonFlags struct {
	ConfigDir string
	Quiet     bool
	Debug     bool
}

// Register adds the common flags to fs.
func (c *CommonFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigDir, "config", "", "")
	fs.BoolVar(&c.Quiet, "quiet", false, "")
	fs.BoolVar(&c.Debug, "debug", false, "")
}

// ParseFlags parses args for cmd and returns the positional arguments.
// extra registers additional flags, e.g. the common ones; it may be nil.
// Errors carry the message to print after "error: ".
func ParseFlags(cmd Command, args []string, extra func(fs *flag.FlagSet)) ([]string, error) {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	if extra != nil {
		extra(fs)
	}
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return nil, flagError(err)
	}

	// A leading dash left over after parsing is a flag the set did not know
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") && positional[0] != "-" {
		return nil, fmt.Errorf("unknown flag: %s", positional[0])
	}
	return positional, nil
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return errors.New("unknown flag: -help")
	}
	errStr := err.Error()

	if strings.Contains(errStr, "flag needs an argument") {
		name := strings.TrimSpace(errStr[strings.LastIndex(errStr, ":")+1:])
		return fmt.Errorf("flag needs an argument: %s", name)
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return fmt.Errorf("unknown flag: %s", strings.TrimPrefix(errStr, "flag provided but not defined: "))
	}

	return err
}

// optionalString is a string flag that records whether it was set.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}
