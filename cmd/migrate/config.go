package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

var commands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"create":  true,
}

type options struct {
	command string
	name    string
	dir     string
}

// parseOptions reads the command line. defaultDir comes from MIGRATIONS_DIR
// and can be overridden with -dir.
func parseOptions(args []string, defaultDir string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.command, "command", "up", "Migration command: up, down, status, version, create")
	fs.StringVar(&opts.name, "name", "", "Name for 'create' command")
	fs.StringVar(&opts.dir, "dir", defaultDir, "Directory holding the SQL migrations")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if !commands[opts.command] {
		return options{}, fmt.Errorf("unknown command: %s. Use: up, down, status, version, create", opts.command)
	}
	if opts.command == "create" && opts.name == "" {
		return options{}, errors.New("name is required for 'create' command")
	}
	return opts, nil
}
