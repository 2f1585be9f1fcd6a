package book

import "strings"

// Built-in lines in UCI notation, one per line.
var repertoire = []string{
	// 1.e4 e5
	"e2e4 e7e5 g1f3 b8c6 f1b5 a7a6 b5a4 g8f6 e1g1",
	"e2e4 e7e5 g1f3 b8c6 f1c4 f8c5 c2c3 g8f6 d2d4",
	// Sicilian, French, Caro-Kann
	"e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6 b1c3",
	"e2e4 e7e6 d2d4 d7d5 b1c3 g8f6 c1g5",
	"e2e4 c7c6 d2d4 d7d5 b1c3 d5e4 c3e4 c8f5",
	// Queen's Gambit, Slav, King's Indian
	"d2d4 d7d5 c2c4 e7e6 b1c3 g8f6 c1g5 f8e7",
	"d2d4 d7d5 c2c4 c7c6 g1f3 g8f6 b1c3",
	"d2d4 g8f6 c2c4 g7g6 b1c3 f8g7 e2e4 d7d6 g1f3",
	// London System
	"d2d4 d7d5 c1f4 g8f6 e2e3 e7e6 g1f3 c7c5 c2c3",
	"d2d4 g8f6 c1f4 e7e6 e2e3 d7d5 g1f3",
	// Colle System
	"d2d4 d7d5 g1f3 g8f6 e2e3 e7e6 f1d3 c7c5 c2c3 b8c6 b1d2",
}

// Default returns a book built from the built-in repertoire.
func Default() *Book {
	bk := New()
	for _, line := range repertoire {
		if err := bk.AddLine("", strings.Fields(line)...); err != nil {
			panic(err)
		}
	}
	return bk
}
