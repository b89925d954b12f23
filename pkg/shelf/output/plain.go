package output

import (
	"bytes"
	"text/tabwriter"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// PlainFormatter formats output as a simple tab-separated table.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted summary to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, s *types.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := tw.Write([]byte("ACTION\tNAME\tDESTINATION\n")); err != nil {
		return err
	}

	for _, o := range s.Outcomes {
		detail := o.Destination
		if o.Action == types.ActionFailed {
			detail = o.Error
		}
		if _, err := tw.Write([]byte(string(o.Action) + "\t" + o.Item.Name + "\t" + detail + "\n")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
