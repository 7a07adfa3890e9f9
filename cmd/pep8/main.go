// Command pep8 is the interactive Pep/8 simulator CLI.
package main

import (
	"fmt"
	"log"
	"os"

	"pep8/isa"
	"pep8/objfile"
	"pep8/simulator"
)

const version = "pep8 1.0 (Pep/8 simulator)"

func main() {
	os.Exit(run())
}

func run() int {
	verbose := false
	for _, a := range os.Args[1:] {
		switch a {
		case "-v":
			verbose = true
		default:
			fmt.Fprintln(os.Stderr, "usage: pep8 [-v]")
			return 2
		}
	}
	if verbose {
		fmt.Println(version)
	}

	trapFile, err := os.Open("trap")
	if err != nil {
		fmt.Fprintln(os.Stderr, "pep8: trap registry:", err)
		return 1
	}
	defer trapFile.Close()

	traps, err := isa.LoadTrapRegistry(trapFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pep8: trap registry:", err)
		return 1
	}
	tbl, err := isa.NewTable(traps)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pep8:", err)
		return 1
	}

	romFile, err := os.Open("pep8os.pepo")
	if err != nil {
		fmt.Fprintln(os.Stderr, "pep8: OS ROM:", err)
		return 3
	}
	romImage, err := objfile.Read(romFile)
	romFile.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pep8: OS ROM:", err)
		return 3
	}

	log.SetPrefix("pep8: ")
	log.SetFlags(0)
	log.Printf("trap registry loaded; OS ROM image is %d bytes", len(romImage))

	m, err := simulator.NewMachine(tbl, len(romImage))
	if err != nil {
		fmt.Fprintln(os.Stderr, "pep8:", err)
		return 3
	}
	if err := m.Load(nil, romImage); err != nil {
		fmt.Fprintln(os.Stderr, "pep8:", err)
		return 3
	}
	m.IO = simulator.NewStreamIO(os.Stdin, os.Stdout)
	m.Trace = simulator.NewWriterSink(os.Stdout)

	menu := simulator.NewMenu(m, os.Stdin, os.Stdout)
	menu.RomObj = romImage

	if err := menu.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "pep8:", err)
		return 2
	}
	return 0
}
