// Package cmd implements the btcf command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/btcfolio"
	"github.com/etnz/btcfolio/coingecko"
	"github.com/etnz/btcfolio/store/sqlite"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd, group(cmd.Name()))
	}
}

// Commands returns a fresh instance of every subcommand.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&buyCmd{},
		&sellCmd{},
		&importCmd{},
		&fmtCmd{},
		&logCmd{},
		&summaryCmd{},
		&historyCmd{},
		&watchCmd{},
		&liveCmd{},
		&topicCmd{},
	}
}

func group(name string) string {
	switch name {
	case "buy", "sell", "import", "fmt":
		return "transactions"
	case "live":
		return "market"
	case "topic":
		return "help"
	default:
		return "reports"
	}
}

// EnvAPIKey is read when -coingecko-api-key is not set.
const EnvAPIKey = "COINGECKO_API_KEY"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "btc.jsonl", "Path to the ledger (a JSONL file, or a SQLite database with -store sqlite)")
var storeKind = flag.String("store", "jsonl", "Ledger storage: jsonl or sqlite")
var apiKey = flag.String("coingecko-api-key", "", "CoinGecko demo API key (default $"+EnvAPIKey+")")
var costBasis btcfolio.CostBasisPolicy

func init() {
	flag.Var(&costBasis, "cost-basis", "How sells count in the invested amount: gross, net or buys")
}

// session is a btcfolio.Session that also owns its store.
type session struct {
	*btcfolio.Session
	closeStore func() error
}

func (s *session) Close() error {
	err := s.Session.Close()
	if s.closeStore != nil {
		err = errors.Join(err, s.closeStore())
		s.closeStore = nil
	}
	return err
}

// openStore returns the store selected by the global flags, and a function
// that releases it.
func openStore() (btcfolio.Store, func() error, error) {
	switch *storeKind {
	case "jsonl", "":
		return btcfolio.NewFileStore(*ledgerFile), nil, nil
	case "sqlite":
		db, err := sqlite.Open(*ledgerFile)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q, want jsonl or sqlite", *storeKind)
	}
}

// openSession opens the ledger selected by the global flags. A ledger that
// cannot be read is replaced by an empty one with a warning.
func openSession() (*session, error) {
	store, closeStore, err := openStore()
	if err != nil {
		return nil, err
	}

	s, err := btcfolio.Open(store)
	if err != nil {
		return nil, err
	}
	if err := s.Recovered(); err != nil {
		log.Printf("warning, ledger %s cannot be read, using an empty ledger instead: %v", *ledgerFile, err)
	}
	return &session{Session: s, closeStore: closeStore}, nil
}

// openWritableSession is openSession for commands that append: they refuse to
// run on an unreadable ledger, since saving would overwrite it.
func openWritableSession() (*session, error) {
	s, err := openSession()
	if err != nil {
		return nil, err
	}
	if err := s.Recovered(); err != nil {
		s.Close()
		return nil, fmt.Errorf("ledger %s is unreadable, fix or move it first: %w", *ledgerFile, err)
	}
	return s, nil
}

func newEngine() *btcfolio.Engine { return btcfolio.NewEngine(costBasis) }

// newMarket returns the CoinGecko client. With cache set, responses are kept
// on disk for an hour, which suits one-shot reports.
func newMarket(cache bool) *coingecko.Client {
	key := *apiKey
	if key == "" {
		key = os.Getenv(EnvAPIKey)
	}
	var opts []coingecko.Option
	if cache {
		opts = append(opts, coingecko.WithHTTPClient(coingecko.NewCachingClient("", time.Hour)))
	}
	return coingecko.New(key, opts...)
}

// printMarkdown renders md for the terminal, or prints it raw if it can't.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
