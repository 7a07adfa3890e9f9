package simulator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"pep8/objfile"
)

// Menu drives the interactive command loop: load, execute, dump,
// trace-scope and display adjustment, I/O redirection, and quit. It is
// deliberately a plain read-a-line-and-switch loop rather than a
// flag-parsed one-shot command, matching how the OS ROM console
// program presents itself.
type Menu struct {
	Machine *Machine
	UserObj []byte
	RomObj  []byte
	in      *bufio.Scanner
	out     io.Writer

	pageSize int
	paged    bool

	inFile  *os.File
	outFile *os.File
}

func NewMenu(m *Machine, in io.Reader, out io.Writer) *Menu {
	return &Menu{Machine: m, in: bufio.NewScanner(in), out: out, pageSize: MinPageSize}
}

func (mn *Menu) printPrompt() {
	fmt.Fprint(mn.out, "\npep8> load  execute  dump  trace  input  output  state  quit\n> ")
}

// Close releases any redirected I/O files; called on every exit path.
func (mn *Menu) Close() {
	if mn.inFile != nil {
		mn.inFile.Close()
		mn.inFile = nil
	}
	if mn.outFile != nil {
		mn.outFile.Close()
		mn.outFile = nil
	}
}

func (mn *Menu) Run() error {
	defer mn.Close()
	for {
		mn.printPrompt()
		if !mn.in.Scan() {
			return nil
		}
		fields := strings.Fields(mn.in.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "quit", "q", "exit":
			return nil
		case "load":
			if len(fields) < 2 {
				fmt.Fprintln(mn.out, "usage: load <object-file>")
				continue
			}
			if err := mn.load(fields[1]); err != nil {
				fmt.Fprintln(mn.out, "load:", err)
			}
		case "execute", "run":
			mn.execute()
		case "dump":
			mn.dump(fields[1:])
		case "trace":
			mn.trace(fields[1:])
		case "state":
			pp.Fprintln(mn.out, mn.Machine.Snapshot())
		case "input", "in":
			mn.selectInput(fields[1:])
		case "output", "out":
			mn.selectOutput(fields[1:])
		default:
			fmt.Fprintln(mn.out, "unrecognized command:", fields[0])
		}
	}
}

func (mn *Menu) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := objfile.Read(f)
	if err != nil {
		return err
	}
	mn.UserObj = data
	return mn.Machine.Load(mn.UserObj, mn.RomObj)
}

// execute starts the loaded program from address 0 with SP taken from
// the user-SP vector. A runtime error halts the run and drops back to
// the menu; the process stays up.
func (mn *Menu) execute() {
	if mn.paged {
		mn.Machine.Trace = NewPagedSink(mn.out, os.Stdin, mn.pageSize)
	}
	mn.Machine.StartProgram()
	if err := mn.Machine.Run(); err != nil {
		fmt.Fprintln(mn.out, "execute:", err)
		return
	}
	fmt.Fprintln(mn.out, "halted normally")
}

// dump re-prompts until it gets a valid inclusive hex range.
func (mn *Menu) dump(args []string) {
	for {
		start, end, err := parseRange(args)
		if err == nil {
			mn.Machine.Dump(mn.out, start, end)
			return
		}
		fmt.Fprintf(mn.out, "dump: %v\nrange (start end, hex)> ", err)
		if !mn.in.Scan() {
			return
		}
		args = strings.Fields(mn.in.Text())
	}
}

func parseRange(args []string) (uint16, uint16, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected start and end addresses")
	}
	start, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad start address %q", args[0])
	}
	end, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad end address %q", args[1])
	}
	if end < start {
		return 0, 0, fmt.Errorf("end address below start address")
	}
	return uint16(start), uint16(end), nil
}

func (mn *Menu) trace(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(mn.out, "usage: trace off|program|all|loader | scroll|page [n]|step")
		return
	}
	switch strings.ToLower(args[0]) {
	case "off":
		mn.Machine.TraceScope.Mode = TraceOff
	case "program":
		mn.Machine.TraceScope.Mode = TraceProgramOnly
	case "all", "traps":
		mn.Machine.TraceScope.Mode = TraceProgramAndTraps
	case "loader":
		mn.Machine.TraceScope.Mode = TraceLoaderOnly
	case "scroll":
		mn.paged = false
		if f, ok := mn.out.(*os.File); ok {
			mn.Machine.Trace = NewWriterSink(f)
		}
	case "page":
		mn.paged = true
		if len(args) >= 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < MinPageSize {
				fmt.Fprintf(mn.out, "page size must be a number >= %d\n", MinPageSize)
				return
			}
			mn.pageSize = n
		} else if _, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && h-2 > MinPageSize {
			mn.pageSize = h - 2
		}
	case "step":
		mn.paged = true
		mn.pageSize = 1
	default:
		fmt.Fprintln(mn.out, "unknown trace setting:", args[0])
	}
}

// selectInput switches CHARI's source between the keyboard and a file.
func (mn *Menu) selectInput(args []string) {
	if len(args) < 1 || strings.EqualFold(args[0], "keyboard") {
		if mn.inFile != nil {
			mn.inFile.Close()
			mn.inFile = nil
		}
		mn.rebindIO()
		fmt.Fprintln(mn.out, "input: keyboard")
		return
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintln(mn.out, "input:", err)
		return
	}
	if mn.inFile != nil {
		mn.inFile.Close()
	}
	mn.inFile = f
	mn.rebindIO()
	fmt.Fprintln(mn.out, "input:", args[0])
}

// selectOutput switches CHARO's target between the screen and a file.
func (mn *Menu) selectOutput(args []string) {
	if len(args) < 1 || strings.EqualFold(args[0], "screen") {
		if mn.outFile != nil {
			mn.outFile.Close()
			mn.outFile = nil
		}
		mn.rebindIO()
		fmt.Fprintln(mn.out, "output: screen")
		return
	}
	f, err := os.Create(args[0])
	if err != nil {
		fmt.Fprintln(mn.out, "output:", err)
		return
	}
	if mn.outFile != nil {
		mn.outFile.Close()
	}
	mn.outFile = f
	mn.rebindIO()
	fmt.Fprintln(mn.out, "output:", args[0])
}

func (mn *Menu) rebindIO() {
	var in io.Reader = os.Stdin
	if mn.inFile != nil {
		in = mn.inFile
	}
	var out io.Writer = os.Stdout
	if mn.outFile != nil {
		out = mn.outFile
	}
	mn.Machine.IO = NewStreamIO(in, out)
}
