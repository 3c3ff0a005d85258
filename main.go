// Command hypercut evaluates puzzle-definition files and reports what
// they build. It is a thin host over the kernel packages; rendering and
// interaction live in external frontends.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	stlOut := flag.String("stl", "", "write the sticker surface of the named puzzle as binary STL")
	stlID := flag.String("puzzle", "", "puzzle id for -stl (defaults to the first definition)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hypercut [-stl out.stl [-puzzle id]] <definitions.lisp>")
		os.Exit(2)
	}

	app := NewApp()
	result, err := app.EvaluateFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read %s: %v", flag.Arg(0), err)
	}

	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(os.Stderr, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Message)
		}
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}

	for _, pz := range result.Puzzles {
		fmt.Printf("%s (%s): %dD, %d pieces, %d stickers, %d axes, %d twists\n",
			pz.ID, pz.Name, pz.Ndim, pz.Pieces, pz.Stickers, pz.Axes, pz.Twists)
	}

	if *stlOut != "" {
		id := *stlID
		if id == "" && len(result.Puzzles) > 0 {
			id = result.Puzzles[0].ID
		}
		if err := app.ExportSTL(result, id, *stlOut); err != nil {
			log.Fatalf("export %s: %v", id, err)
		}
		fmt.Printf("wrote %s\n", *stlOut)
	}
}
