// Command sentinelctl is an operator console for a running sentinel node.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pterm/pterm"

	"github.com/goodnatureofminers/sentinelmesh/internal/metrics"
	"github.com/goodnatureofminers/sentinelmesh/internal/peer"
)

type options struct {
	Node    string        `short:"n" long:"node" env:"SENTINELCTL_NODE" default:"http://127.0.0.1:5000" description:"node endpoint (host:port, URL or multiaddr)"`
	Timeout time.Duration `long:"timeout" env:"SENTINELCTL_TIMEOUT" default:"5s" description:"request timeout"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{ctx: ctx}
	parser := newParser(a)
	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			pterm.Println(err.Error())
			return
		}
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	ctx    context.Context
	opts   options
	client *peer.Client
}

func newParser(a *app) *flags.Parser {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = false
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if a.client == nil {
			a.client = peer.NewClient(a.opts.Timeout, metrics.NewPeerClient())
		}
		return cmd.Execute(args)
	}

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"status", "Show node status", "Print identity, reputation and pool state of the node.", &statusCommand{app: a}},
		{"chain", "Show the ledger", "Print every block of the node's chain.", &chainCommand{app: a}},
		{"register", "Register peers", "Add peer endpoints to the node's peer set.", &registerCommand{app: a}},
		{"resolve", "Run consensus", "Ask the node to adopt the longest valid chain among its peers.", &resolveCommand{app: a}},
		{"mine", "Seal pending alerts", "Ask the node to seal its pending pool into a block.", &mineCommand{app: a}},
		{"alert", "Submit an alert", "Submit a manual alert to the node's pending pool.", &alertCommand{app: a}},
		{"scan", "Run one scan", "Ask the node to score one traffic sample.", &scanCommand{app: a}},
		{"contracts", "Show contracts", "Print the contract catalog and enforcement state.", &contractsCommand{app: a}},
		{"boost", "Boost reputation", "Raise the node's reputation (dev mode only).", &boostCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			panic(err)
		}
	}
	return parser
}

func (a *app) endpoint() (string, error) {
	return peer.Normalize(a.opts.Node)
}

func (a *app) get(path string, out any) error {
	endpoint, err := a.endpoint()
	if err != nil {
		return err
	}
	_, err = a.client.Get(a.ctx, endpoint, path, out)
	return describe(err)
}

func (a *app) post(path string, in, out any) error {
	endpoint, err := a.endpoint()
	if err != nil {
		return err
	}
	_, err = a.client.Post(a.ctx, endpoint, path, in, out)
	return describe(err)
}
