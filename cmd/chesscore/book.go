package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hailam/chesscore/internal/book"
)

func runBook(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		pos    positionFlags
		sf     storeFlags
		add    = fs.String("add", "", "UCI line to add from -fen and save in -db")
		export = fs.String("export", "", "write the combined book to this file")
		imprt  = fs.String("import", "", "merge this book file into -db")
	)
	pos.register(fs)
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := pos.logger(stderr)
	if err != nil {
		return err
	}
	store, err := sf.open()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	if (*add != "" || *imprt != "") && store == nil {
		return errors.New("-add and -import need -db")
	}

	// Only lines added here are stored; the -book source is merged on read.
	saved, err := savedBook(store)
	if err != nil {
		return err
	}
	changed := false
	if *imprt != "" {
		other, err := book.Load(*imprt)
		if err != nil {
			return err
		}
		saved.Merge(other)
		log.Info().Str("file", *imprt).Int("positions", other.Size()).Msg("imported book")
		changed = true
	}
	if *add != "" {
		if err := saved.AddLine(pos.fen, strings.Fields(*add)...); err != nil {
			return err
		}
		changed = true
	}
	if changed {
		if err := store.SaveBook(saved); err != nil {
			return err
		}
		log.Info().Int("positions", saved.Size()).Msg("book saved")
	}

	bk, err := sf.source()
	if err != nil {
		return err
	}
	bk.Merge(saved)
	if *export != "" {
		if err := bk.Save(*export); err != nil {
			return err
		}
		log.Info().Str("file", *export).Int("positions", bk.Size()).Msg("book exported")
	}

	b, _, err := pos.position()
	if err != nil {
		return err
	}
	entries := bk.Entries(b.Hash)
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "no book moves")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "%s %d\n", e.Move, e.Count)
	}
	return nil
}
