package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
)

// renderReport builds the HTML body for a sync report email.
func renderReport(report *recon.BatchReport) string {
	var b strings.Builder

	b.WriteString("<div style=\"font-family: sans-serif; max-width: 640px;\">")
	fmt.Fprintf(&b, "<h2>Sync report: %s</h2>", htmlEscape(report.Supplier))
	fmt.Fprintf(&b, "<p>%s &ndash; %s (%s)</p>",
		report.StartedAt.Format("2006-01-02 15:04:05"),
		report.FinishedAt.Format("15:04:05"),
		report.FinishedAt.Sub(report.StartedAt).Round(1e9))

	if n := report.CriticalCount(); n > 0 {
		fmt.Fprintf(&b, "<div style=\"background: #fee; border: 2px solid #c00; padding: 12px; margin: 12px 0;\">"+
			"<strong>⚠️ %d KRITISK MISMATCH</strong> &ndash; fulfillment blev blokeret. "+
			"Tjek ordrenumrene nedenfor manuelt.</div>", n)
	}

	b.WriteString("<table cellpadding=\"6\" style=\"border-collapse: collapse;\">")
	row := func(label string, value int) {
		fmt.Fprintf(&b, "<tr><td style=\"border: 1px solid #ddd;\">%s</td>"+
			"<td style=\"border: 1px solid #ddd; text-align: right;\">%d</td></tr>", label, value)
	}
	row("Processed", report.Processed)
	row("Fulfilled", report.Fulfilled)
	row("Partially fulfilled", report.PartiallyFulfilled)
	row("Skipped", report.Skipped)
	row("Errors", len(report.Errors))
	b.WriteString("</table>")

	if len(report.Errors) > 0 {
		b.WriteString("<h3>Errors</h3><ul>")
		for _, e := range report.Errors {
			style := ""
			prefix := ""
			if e.Critical {
				style = " style=\"color: #c00; font-weight: bold;\""
				prefix = "KRITISK: "
			}
			fmt.Fprintf(&b, "<li%s>%s[%s] %s (%s): %s</li>",
				style, prefix, htmlEscape(e.Supplier), htmlEscape(e.Reference),
				htmlEscape(e.SupplierOrder), htmlEscape(e.Detail))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("</div>")
	return b.String()
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
