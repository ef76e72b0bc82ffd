package interactive

import (
	"fmt"
	"io"
	"strings"

	"github.com/canpack/canpack-go/pkg/catalog"
	"github.com/canpack/canpack-go/pkg/packer"
)

// FormatFrame renders a frame as space-separated upper-case hex bytes.
func FormatFrame(frame []byte) string {
	var b strings.Builder
	for i, v := range frame {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}

// WriteMessages lists every message of the packer's registry.
func WriteMessages(w io.Writer, p *packer.Packer) {
	msgs := p.Registry().Messages()
	fmt.Fprintf(w, "%d messages:\n", len(msgs))
	for _, m := range msgs {
		var extras []string
		if m.Signal(catalog.CounterSignal) != nil {
			extras = append(extras, "counter")
		}
		if sig := m.Signal(catalog.ChecksumSignal); sig != nil && sig.ChecksumName != "" {
			extras = append(extras, "checksum="+sig.ChecksumName)
		}
		suffix := ""
		if len(extras) > 0 {
			suffix = " [" + strings.Join(extras, ", ") + "]"
		}
		fmt.Fprintf(w, "  0x%-5X %-24s %d bytes, %d signals%s\n", m.Address, m.Name, m.Size, len(m.Signals), suffix)
	}
}

// WriteSignals lists the signals of one message.
func WriteSignals(w io.Writer, msg *catalog.Message) {
	fmt.Fprintf(w, "%s (0x%X, %d bytes):\n", msg.Name, msg.Address, msg.Size)
	for _, s := range msg.Signals {
		fmt.Fprintf(w, "  %-24s start=%-3d len=%-2d %-7s factor=%g offset=%g\n",
			s.Name, s.StartBit, s.BitLength, s.Order, s.Factor, s.Offset)
	}
}
