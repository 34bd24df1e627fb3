// Command scry-sync writes flashcard edits made in Anki back into the
// markdown notes the cards were created from.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli defines the command-line interface.
type cli struct {
	Config   string `name:"config" short:"c" help:"Path to a YAML config file" type:"path"`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`

	Sync    SyncCmd    `cmd:"" help:"Write remote card changes into local documents"`
	Extract ExtractCmd `cmd:"" help:"List the cards found in a document"`
	History HistoryCmd `cmd:"" help:"Show recent sync runs from the journal"`
	Migrate MigrateCmd `cmd:"" help:"Apply sync journal migrations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// runtime is bound into every command's Run method.
type runtime struct {
	ctx    context.Context
	cli    *cli
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scry-sync: %v\n", err)
		os.Exit(1)
	}
}

// execute parses args and runs the selected command.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, options ...kong.Option) error {
	var c cli
	parser, err := kong.New(&c, append([]kong.Option{
		kong.Name("scry-sync"),
		kong.Description("Sync Anki flashcard edits back into markdown notes"),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
	}, options...)...)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return kctx.Run(&runtime{
		ctx:    ctx,
		cli:    &c,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	})
}

// VersionCmd prints the version.
type VersionCmd struct{}

// Run implements the version command.
func (VersionCmd) Run(rt *runtime) error {
	_, err := io.WriteString(rt.stdout, "scry-sync "+version+"\n")
	return err
}
