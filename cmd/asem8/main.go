// Command asem8 is the Pep/8 two-pass assembler CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"pep8/assembler"
	"pep8/isa"
	"pep8/objfile"
)

const version = "asem8 1.0 (Pep/8 assembler)"

func main() {
	os.Exit(run())
}

func run() int {
	var verbose, listing, debug bool
	var sourcePath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-v":
			verbose = true
		case "-l":
			listing = true
		case "-debug":
			debug = true
		default:
			if sourcePath != "" {
				fmt.Fprintln(os.Stderr, "usage: asem8 [-v] [[-l] sourceFile]")
				return 2
			}
			sourcePath = args[i]
		}
	}

	if verbose {
		fmt.Println(version)
	}
	if sourcePath == "" {
		return 0
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "asem8:", err)
		return 3
	}
	defer src.Close()

	trapFile, err := os.Open("trap")
	if err != nil {
		fmt.Fprintln(os.Stderr, "asem8: trap registry:", err)
		return 2
	}
	defer trapFile.Close()

	traps, err := isa.LoadTrapRegistry(trapFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "asem8: trap registry:", err)
		return 2
	}
	tbl, err := isa.NewTable(traps)
	if err != nil {
		fmt.Fprintln(os.Stderr, "asem8:", err)
		return 2
	}

	res := assembler.Assemble(src, assembler.Config{Table: tbl, Traps: traps, Debug: debug})
	if len(res.Errors) > 0 {
		assembler.ReportErrors(os.Stderr, res.Errors)
		return 2
	}

	objOut, err := os.Create(withExt(sourcePath, ".pepo"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "asem8:", err)
		return 2
	}
	defer objOut.Close()
	if err := objfile.Write(objOut, res.Object); err != nil {
		fmt.Fprintln(os.Stderr, "asem8:", err)
		return 2
	}

	if listing {
		listOut, err := os.Create(withExt(sourcePath, ".pepl"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "asem8:", err)
			return 2
		}
		defer listOut.Close()
		if err := assembler.WriteListing(listOut, res.Info); err != nil {
			fmt.Fprintln(os.Stderr, "asem8:", err)
			return 2
		}
	}

	return 0
}

func withExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i] + ext
	}
	return path + ext
}
