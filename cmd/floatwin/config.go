package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatwin/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  floatwin config init [--path PATH] [--force]")
	fmt.Fprintln(w, "  floatwin config validate [--path PATH]")
	fmt.Fprintln(w, "  floatwin config print [--path PATH] [--defaults]")
	fmt.Fprintln(w, "  floatwin config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "PATH defaults to $FLOATWIN_CONFIG or ~/.config/floatwin/config.yaml.")
}

// configCommand is one `floatwin config` subcommand. path holds the --path
// flag after parsing.
type configCommand struct {
	flags func(fs *flag.FlagSet)
	run   func(path string, args []string) error
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stderr)
		return 2
	}

	var force, defaults bool
	commands := map[string]configCommand{
		"init": {
			flags: func(fs *flag.FlagSet) { fs.BoolVar(&force, "force", false, "Overwrite an existing file") },
			run:   func(path string, _ []string) error { return configInit(path, force) },
		},
		"validate": {
			run: func(path string, _ []string) error {
				res, err := loadConfig(path)
				if err != nil {
					return err
				}
				fmt.Printf("config: ok (%d file(s), %d startup window(s))\n", len(res.Files), len(res.Config.Windows))
				return nil
			},
		},
		"print": {
			flags: func(fs *flag.FlagSet) { fs.BoolVar(&defaults, "defaults", false, "Print built-in defaults (no files)") },
			run:   func(path string, _ []string) error { return configPrint(path, defaults) },
		},
		"explain": {
			run: configExplain,
		},
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}

	fs := flag.NewFlagSet("config "+args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printConfigUsage(os.Stderr) }
	path := fs.String("path", "", "Config file path")
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := cmd.run(*path, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func configInit(path string, force bool) error {
	target := configPath(path)
	if target == "" {
		return errors.New("cannot resolve a config path; pass --path")
	}
	if _, err := os.Stat(target); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	}
	if err := config.DefaultConfig().Save(target); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", target)
	return nil
}

func configPrint(path string, defaults bool) error {
	cfg := config.DefaultConfig()
	if !defaults {
		res, err := loadConfig(path)
		if err != nil {
			return err
		}
		cfg = res.Config
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func configExplain(path string, args []string) error {
	if len(args) != 1 {
		return errors.New("explain requires exactly one <yaml.path>, e.g. desktop.viewport.width")
	}
	res, err := loadConfig(path)
	if err != nil {
		return err
	}
	value, src, err := config.Explain(res, args[0])
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Printf("%s = %s", args[0], out)
	fmt.Printf("  from %s\n", formatSource(src))
	return nil
}

// formatSource renders where a config value came from.
func formatSource(src config.Source) string {
	switch {
	case src.Kind == config.SourceFile && src.Line > 0:
		return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
	case src.Kind == config.SourceFile && src.File != "":
		return src.File
	case src.Kind == config.SourceFile:
		return "file"
	case src.Kind == config.SourceDefault && src.Name != "":
		return "default (" + src.Name + ")"
	}
	return string(src.Kind)
}
