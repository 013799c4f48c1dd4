package serde

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Print logs a table of the registered encoders.
func (s *Serde) Print() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := new(bytes.Buffer)
	table := tablewriter.NewWriter(b)
	table.SetHeader([]string{`Schema Id`, `Subject`, `Version`, `Decoder`})

	for _, versions := range s.schemas {
		for _, encoder := range versions {
			table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT})
			table.SetAutoFormatHeaders(true)
			table.Append([]string{
				fmt.Sprint(encoder.subject.Id),
				fmt.Sprint(encoder.subject.Subject),
				fmt.Sprint(encoder.subject.Version),
				fmt.Sprint(encoder.subject.UnmarshalerFunc != nil),
			})
		}
	}

	table.Render()
	s.logger.Info(fmt.Sprintf("registered schemas\n%s", b.String()))
}
