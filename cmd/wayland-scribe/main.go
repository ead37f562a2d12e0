package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/waylandkit/scribe"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" default:"withargs" help:"Generate C++ wrapper code for a wayland protocol."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("%s %s\n", scribe.ScannerName, scribe.Version)
	return nil
}

type GenCmd struct {
	Server string `help:"Generate the server-side wrapper code for the given protocol." placeholder:"spec-file" xor:"role"`
	Client string `help:"Generate the client-side wrapper code for the given protocol." placeholder:"spec-file" xor:"role"`
	Source bool   `help:"Generate the source code for the given protocol."`
	Header bool   `help:"Generate the header code for the given protocol."`

	HeaderPath string   `help:"Path to the c header of this protocol (optional)." placeholder:"path"`
	Prefix     string   `help:"Prefix of interfaces (to be stripped; optional)."`
	AddInclude []string `help:"Add extra include path (can specify multiple times; optional)." placeholder:"include"`

	Verbose bool `short:"v" help:"Enable debug logging."`

	Output []string `arg:"" optional:"" help:"Name of the output file to be generated."`
}

func (c *GenCmd) Run() error {
	logger := newLogger(c.Verbose)

	if c.Server == "" && c.Client == "" {
		return fmt.Errorf("please specify either --server or --client")
	}

	role, specPath := scribe.RoleServer, c.Server
	if c.Client != "" {
		role, specPath = scribe.RoleClient, c.Client
	}

	artifacts := scribe.ArtifactBoth
	switch {
	case c.Source && !c.Header:
		artifacts = scribe.ArtifactSource
	case c.Header && !c.Source:
		artifacts = scribe.ArtifactHeader
	}

	output := ""
	if len(c.Output) > 0 {
		output = c.Output[0]
		if len(c.Output) > 1 {
			logger.Warn().Strs("ignored", c.Output[1:]).Msg("ignoring extra arguments")
		}
	}

	defaults, err := loadDefaults(defaultsFile)
	if err != nil {
		return err
	}
	if c.HeaderPath == "" {
		c.HeaderPath = defaults.HeaderPath
	}
	if c.Prefix == "" {
		c.Prefix = defaults.Prefix
	}
	includes := append(append([]string{}, defaults.AddInclude...), c.AddInclude...)

	return scribe.Generate(scribe.Config{
		SpecPath:      specPath,
		Role:          role,
		Artifacts:     artifacts,
		Output:        output,
		HeaderPath:    c.HeaderPath,
		Prefix:        c.Prefix,
		ExtraIncludes: includes,
		Logger:        logger,
	})
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("wayland-scribe"),
		kong.Description("Reads wayland protocols in XML format and generates C++ wrapper code."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
