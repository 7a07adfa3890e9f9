package simulator

import (
	"fmt"
	"strings"

	"pep8/isa"
)

// Load places romImage at the top of memory (fixing the ROM/RAM
// boundary at len(mem)-len(romImage)) and userImage at address 0, into
// one flat memory image, before the execute loop starts. With the
// trace scope set to loader-only, each 16-byte row placed is reported
// through the trace sink.
func (m *Machine) Load(userImage, romImage []byte) error {
	if len(romImage) == 0 {
		return fmt.Errorf("simulator: empty OS ROM image")
	}
	romStart := len(m.Mem) - len(romImage)
	if romStart < len(userImage) {
		return fmt.Errorf("simulator: OS ROM image of %d bytes collides with a %d-byte user program", len(romImage), len(userImage))
	}

	mm, err := isa.NewMemoryMap(romStart)
	if err != nil {
		return fmt.Errorf("simulator: %w", err)
	}
	m.RegionMap = mm

	m.State = ModeLoading
	for i := range m.Mem {
		m.Mem[i] = 0
	}
	copy(m.Mem[:], userImage)
	copy(m.Mem[romStart:], romImage)

	if m.Trace != nil && m.TraceScope.Mode == TraceLoaderOnly {
		for off := 0; off < len(userImage); off += 16 {
			end := off + 16
			if end > len(userImage) {
				end = len(userImage)
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "%04X <-", off)
			for _, b := range userImage[off:end] {
				fmt.Fprintf(&sb, " %02X", b)
			}
			m.Trace.EmitLine(sb.String())
		}
	}

	m.Reset()
	m.State = ModeIdle
	return nil
}
