// Package scribe translates a wayland protocol description into C++
// wrapper code: a header/source pair wrapping the already-generated
// wire-marshalling layer, for either the server or the client side.
//
// Generation is a straight-line pipeline per run: parse, build the
// model, render every requested artifact in memory, then write. The
// model is validated in full before any output file is opened, so
// either all requested artifacts are produced or none are.
package scribe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/waylandkit/scribe/cpp"
	"github.com/waylandkit/scribe/provider"
	"github.com/waylandkit/scribe/sink"
)

// ScannerName and Version identify the generator in the provenance
// comment of every artifact.
const (
	ScannerName = "wayland-scribe"
	Version     = "1.1.0"
)

// Artifact selection values for Config.Artifacts.
const (
	ArtifactHeader = "header"
	ArtifactSource = "source"
	ArtifactBoth   = "both"
)

// Role values for Config.Role.
const (
	RoleServer = "server"
	RoleClient = "client"
)

var validate = validator.New()

// Config holds one generation run's options.
type Config struct {
	// SpecPath is the protocol description to translate.
	SpecPath string `validate:"required"`

	// Role selects server or client generation.
	Role string `validate:"required,oneof=server client"`

	// Artifacts selects which artifacts to produce. Empty means both.
	Artifacts string `validate:"omitempty,oneof=header source both"`

	// Output overrides the derived output path. For a single artifact it
	// names the file (the conventional extension is appended when
	// missing); for both it is the common stem.
	Output string

	// HeaderPath switches the C-layer includes to <HeaderPath/...> form.
	HeaderPath string

	// Prefix is an interface-name prefix to strip, overriding the
	// reserved namespace prefixes.
	Prefix string

	// ExtraIncludes are emitted verbatim as include directives.
	ExtraIncludes []string

	// Logger receives progress output. The zero value is silent.
	Logger zerolog.Logger

	// Sink receives the rendered artifacts. Defaults to the filesystem.
	Sink sink.OutputSink
}

// Generate runs the full pipeline for one configuration.
func Generate(cfg Config) error {
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.SpecPath)
	if err != nil {
		return fmt.Errorf("unable to open spec file %s: %w", cfg.SpecPath, err)
	}

	proto, err := provider.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.SpecPath, err)
	}

	role := cpp.RoleClient
	if cfg.Role == RoleServer {
		role = cpp.RoleServer
	}

	em := cpp.New(proto, cpp.Config{
		Role:           role,
		HeaderPath:     cfg.HeaderPath,
		Prefix:         cfg.Prefix,
		ExtraIncludes:  cfg.ExtraIncludes,
		ScannerName:    ScannerName,
		ScannerVersion: Version,
		SourcePath:     cfg.SpecPath,
	})

	headerPath, sourcePath := cfg.outputPaths()

	// Render before opening anything so a schema or rendering problem
	// never leaves a half-written pair behind.
	type artifact struct {
		path    string
		content []byte
	}
	var artifacts []artifact
	if headerPath != "" {
		artifacts = append(artifacts, artifact{headerPath, em.Header()})
	}
	if sourcePath != "" {
		artifacts = append(artifacts, artifact{sourcePath, em.Source()})
	}

	out := cfg.Sink
	if out == nil {
		out = sink.NewFilesystemSink()
	}

	for _, a := range artifacts {
		if err := out.WriteFile(a.path, a.content); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.path, err)
		}
		cfg.Logger.Debug().Str("path", a.path).Int("bytes", len(a.content)).Msg("wrote artifact")
	}

	cfg.Logger.Info().
		Str("protocol", proto.Name).
		Str("role", cfg.Role).
		Int("artifacts", len(artifacts)).
		Msg("generation complete")

	return nil
}

// validateConfig checks the option surface before any I/O happens.
func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			messages = append(messages, ve.Field()+": "+formatFieldError(ve))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
	}
	return err
}

// formatFieldError converts a validator.FieldError to a human-readable
// message.
func formatFieldError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of: " + ve.Param()
	default:
		return "invalid value"
	}
}

// outputPaths derives the destination paths for the requested
// artifacts; an empty string means the artifact is not requested.
func (c *Config) outputPaths() (header, source string) {
	artifacts := c.Artifacts
	if artifacts == "" {
		artifacts = ArtifactBoth
	}

	stem := strings.TrimSuffix(c.SpecPath, ".xml") + "-" + c.Role

	switch artifacts {
	case ArtifactBoth:
		base := stem
		if c.Output != "" {
			base = c.Output + "-" + c.Role
		}
		return base + ".hpp", base + ".cpp"

	case ArtifactHeader:
		out := c.Output
		if out == "" {
			out = stem + ".hpp"
		} else if !hasSuffix(out, 'h') {
			out += ".hpp"
		}
		return out, ""

	default: // ArtifactSource
		out := c.Output
		if out == "" {
			out = stem + ".cpp"
		} else if !hasSuffix(out, 'c') {
			out += ".cpp"
		}
		return "", out
	}
}

// hasSuffix reports whether name already carries a header ('h') or
// source ('c') file extension.
func hasSuffix(name string, kind byte) bool {
	switch kind {
	case 'h':
		return strings.HasSuffix(name, ".h") || strings.HasSuffix(name, ".hh") || strings.HasSuffix(name, ".hpp")
	case 'c':
		return strings.HasSuffix(name, ".cc") || strings.HasSuffix(name, ".cpp")
	}
	return false
}
