package printer

import (
	"fmt"
	"io"

	"github.com/mozilla-ai/maskd/internal/cmd/output"
	"github.com/mozilla-ai/maskd/internal/masking"
)

var _ output.Printer[masking.PolicyEntry] = (*PolicyPrinter)(nil)

// policyRowFormat aligns the status, error and disposition columns.
const policyRowFormat = "%-8v%-32s%s\n"

// PolicyPrinter handles text output for masking policy entries.
type PolicyPrinter struct {
	headerFunc output.WriteFunc[masking.PolicyEntry]
	footerFunc output.WriteFunc[masking.PolicyEntry]
}

// NewPolicyPrinter returns a PolicyPrinter with the column header and summary footer configured.
func NewPolicyPrinter() *PolicyPrinter {
	return &PolicyPrinter{
		headerFunc: PolicyHeader,
		footerFunc: PolicyFooter,
	}
}

// PolicyHeader writes the column titles.
func PolicyHeader(w io.Writer, _ int) {
	_, _ = fmt.Fprintf(w, policyRowFormat, "STATUS", "ERROR", "DISPOSITION")
}

// PolicyFooter writes the number of statuses printed.
func PolicyFooter(w io.Writer, count int) {
	noun := "statuses"
	if count == 1 {
		noun = "status"
	}
	_, _ = fmt.Fprintf(w, "\n%d %s\n", count, noun)
}

// Header writes a custom header if one has been configured via SetHeader.
func (p *PolicyPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

// SetHeader configures a custom header function for the printer.
func (p *PolicyPrinter) SetHeader(fn output.WriteFunc[masking.PolicyEntry]) {
	p.headerFunc = fn
}

// Item writes one policy row.
func (p *PolicyPrinter) Item(w io.Writer, entry masking.PolicyEntry) error {
	_, err := fmt.Fprintf(w, policyRowFormat, entry.StatusCode, entry.Kind, entry.Disposition)
	return err
}

// Footer writes a custom footer if one has been configured via SetFooter.
func (p *PolicyPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

// SetFooter configures a custom footer function for the printer.
func (p *PolicyPrinter) SetFooter(fn output.WriteFunc[masking.PolicyEntry]) {
	p.footerFunc = fn
}
