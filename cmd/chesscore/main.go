// Command chesscore searches chess positions from the command line.
//
//	chesscore bestmove -fen "<fen>" -depth 10
//	chesscore perft -depth 5 -divide
//	chesscore book -moves "e2e4 e7e5"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
	"github.com/hailam/chesscore/internal/storage"
)

const usage = `usage: chesscore <command> [flags]

commands:
  bestmove   search a position and print the best move
  perft      count move-generation leaf nodes
  book       show or edit opening book moves

Run "chesscore <command> -h" for the flags of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "chesscore:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return flag.ErrHelp
	}
	switch args[0] {
	case "bestmove":
		return runBestMove(ctx, args[1:], stdout, stderr)
	case "perft":
		return runPerft(args[1:], stdout, stderr)
	case "book":
		return runBook(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

// positionFlags are shared by every subcommand that works on a position.
type positionFlags struct {
	fen      string
	moves    string
	logLevel string
}

func (p *positionFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.fen, "fen", board.StartFEN, "position in FEN")
	fs.StringVar(&p.moves, "moves", "", "space-separated moves played from -fen, in UCI or SAN")
	fs.StringVar(&p.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, disabled)")
}

// position parses -fen, plays -moves and returns the hashes of the
// positions before each move for repetition detection.
func (p *positionFlags) position() (*board.Board, []uint64, error) {
	b, err := board.ParseFEN(p.fen)
	if err != nil {
		return nil, nil, err
	}
	var history []uint64
	for _, s := range strings.Fields(p.moves) {
		history = append(history, b.Hash)
		if _, err := b.ApplyUCI(s); err != nil {
			m, sanErr := board.ParseSAN(b, s)
			if sanErr != nil {
				return nil, nil, err
			}
			b.MakeMove(m)
		}
	}
	return b, history, nil
}

func (p *positionFlags) logger(w io.Writer) (zerolog.Logger, error) {
	return newLogger(w, p.logLevel)
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("bad -log-level: %w", err)
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// storeFlags select the database and the opening book.
type storeFlags struct {
	db   string
	book string
}

func (s *storeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.db, "db", "", `database directory ("default" for the user data directory, empty for none)`)
	fs.StringVar(&s.book, "book", "builtin", `opening book: "builtin", "none" or a book file`)
}

func (s *storeFlags) open() (*storage.Store, error) {
	switch s.db {
	case "":
		return nil, nil
	case "default":
		return storage.OpenDefault()
	}
	return storage.Open(s.db)
}

// source reads the -book source. It is never written back to the database.
func (s *storeFlags) source() (*book.Book, error) {
	switch s.book {
	case "none", "":
		return book.New(), nil
	case "builtin":
		return book.Default(), nil
	}
	return book.Load(s.book)
}

// savedBook returns the book lines stored in store, or an empty book.
func savedBook(store *storage.Store) (*book.Book, error) {
	if store == nil {
		return book.New(), nil
	}
	return store.LoadBook()
}

// loadBook combines the -book source with the book lines saved in store.
func (s *storeFlags) loadBook(store *storage.Store) (*book.Book, error) {
	bk, err := s.source()
	if err != nil {
		return nil, err
	}
	saved, err := savedBook(store)
	if err != nil {
		return nil, err
	}
	bk.Merge(saved)
	return bk, nil
}
