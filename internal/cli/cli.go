// Package cli implements the passgen command line: flag parsing, output and
// exit codes around the password generator.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MatusOllah/slogcolor"
	"github.com/spf13/pflag"

	"github.com/vaultpass/passgen/internal/config"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/server"
	"github.com/vaultpass/passgen/internal/service"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const usageHeader = `Usage:
  passgen [flags]               generate a password
  passgen serve [flags]         serve the generate API over HTTP
  passgen token --subject NAME  issue a bearer token for the API

Flags:
`

// CLI holds the process I/O so that tests can drive it.
type CLI struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version string
	// Source overrides the entropy source. Nil means the OS CSPRNG.
	Source io.Reader
}

// Run executes the command named by args and returns the process exit code.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			return c.serve(ctx, args[1:])
		case "token":
			return c.token(args[1:])
		}
	}
	return c.generate(args)
}

func (c *CLI) generate(args []string) int {
	fs := c.newFlagSet("passgen")
	fs.IntP("length", "l", crypto.DefaultLength, "password length")
	fs.Bool("no-symbols", false, "exclude symbols")
	fs.Bool("no-numbers", false, "exclude digits")
	fs.Bool("only-letters", false, "use only letters; overrides --no-symbols and --no-numbers")
	fs.Bool("hash", false, "also print an Argon2id hash of the password")
	showVersion := fs.Bool("version", false, "print version and exit")

	if code, ok := c.parse(fs, args); !ok {
		return code
	}
	if *showVersion {
		fmt.Fprintf(c.Stdout, "passgen %s\n", c.Version)
		return ExitOK
	}
	if fs.NArg() > 0 {
		return c.usageError(fs, fmt.Errorf("unknown command %q", fs.Arg(0)))
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return c.configError(fs, err)
	}
	c.setupLogging(cfg.LogLevel)

	if cfg.Length < 1 {
		return c.usageError(fs, fmt.Errorf("%w: got %d", crypto.ErrInvalidLength, cfg.Length))
	}

	policy := crypto.Policy{
		Length:         cfg.Length,
		IncludeSymbols: !cfg.NoSymbols,
		IncludeNumbers: !cfg.NoNumbers,
		LettersOnly:    cfg.OnlyLetters,
	}

	svc := service.NewGeneratorService(crypto.NewGenerator(c.Source))
	resp, err := svc.Generate(policy, cfg.Hash)
	if err != nil {
		return c.fail(err)
	}
	slog.Debug("password generated", "length", resp.Length, "pool_size", resp.PoolSize)

	fmt.Fprintln(c.Stdout, resp.Password)
	if resp.Hash != "" {
		fmt.Fprintln(c.Stdout, resp.Hash)
	}
	return ExitOK
}

func (c *CLI) serve(ctx context.Context, args []string) int {
	fs := c.newFlagSet("passgen serve")
	fs.String("port", "8080", "listen port")
	fs.String("log-level", "info", "debug, info, warn or error")

	if code, ok := c.parse(fs, args); !ok {
		return code
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return c.configError(fs, err)
	}
	c.setupLogging(cfg.LogLevel)

	svc := service.NewGeneratorService(crypto.NewGenerator(c.Source))
	if err := server.Run(ctx, cfg, svc); err != nil {
		return c.fail(err)
	}
	return ExitOK
}

func (c *CLI) token(args []string) int {
	fs := c.newFlagSet("passgen token")
	subject := fs.String("subject", "", "token subject, e.g. the calling service")
	fs.Duration("jwt-expiry", 0, "token lifetime (default from PASSGEN_JWT_EXPIRY or 24h)")

	if code, ok := c.parse(fs, args); !ok {
		return code
	}
	if *subject == "" {
		return c.usageError(fs, crypto.ErrSubjectMissing)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return c.configError(fs, err)
	}
	if cfg.JWTSecret == "" {
		return c.fail(errors.New("PASSGEN_JWT_SECRET is not set"))
	}

	token, err := crypto.IssueToken(*subject, cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return c.fail(err)
	}

	fmt.Fprintln(c.Stdout, token)
	return ExitOK
}

func (c *CLI) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprint(c.Stderr, usageHeader)
		fs.PrintDefaults()
	}
	return fs
}

// parse returns ok=false with the exit code to use when parsing stops the
// command, either for --help (usage already printed) or a bad flag.
func (c *CLI) parse(fs *pflag.FlagSet, args []string) (int, bool) {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return ExitOK, true
	case errors.Is(err, pflag.ErrHelp):
		return ExitOK, false
	default:
		return c.usageError(fs, err), false
	}
}

func (c *CLI) usageError(fs *pflag.FlagSet, err error) int {
	fmt.Fprintf(c.Stderr, "error: %v\n", err)
	fs.Usage()
	return ExitUsage
}

// configError treats unparsable settings as usage errors.
func (c *CLI) configError(fs *pflag.FlagSet, err error) int {
	if errors.Is(err, config.ErrInvalidValue) {
		return c.usageError(fs, err)
	}
	return c.fail(err)
}

func (c *CLI) fail(err error) int {
	fmt.Fprintf(c.Stderr, "error: %v\n", err)
	return ExitFailure
}

// setupLogging installs a colored stderr handler as the default logger.
func (c *CLI) setupLogging(level slog.Level) {
	opts := *slogcolor.DefaultOptions
	opts.Level = level
	slog.SetDefault(slog.New(slogcolor.NewHandler(c.Stderr, &opts)))
}
