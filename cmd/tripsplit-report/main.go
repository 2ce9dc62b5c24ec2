// Command tripsplit-report prints balances and settlement plans for a trip
// export file.
//
// Usage:
//
//	tripsplit-report [-currency THB] [-top 3] trip.json
//
// Reads standard input when the file is "-" or omitted.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/session"
	"github.com/mmynk/tripsplit/internal/tripio"
	"github.com/mmynk/tripsplit/pkg/logging"
	"github.com/mmynk/tripsplit/pkg/money"
)

func main() {
	currency := flag.String("currency", money.DefaultCurrency, "ISO 4217 currency code for amounts")
	top := flag.Int("top", 3, "number of top spenders to list (0 = all)")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger := logging.Setup(os.Stderr, logging.Options{Level: *logLevel})

	formatter, err := money.NewFormatter(*currency)
	if err != nil {
		logger.Error("Invalid currency", "currency", *currency, "error", err)
		os.Exit(2)
	}

	in, name, err := openInput(flag.Arg(0))
	if err != nil {
		logger.Error("Cannot open trip file", "error", err)
		os.Exit(1)
	}
	defer in.Close()

	doc, err := tripio.Import(in)
	if err != nil {
		logger.Error("Cannot read trip file", "file", name, "error", err)
		os.Exit(1)
	}
	logger.Debug("Trip loaded", "file", name, "sessions", len(doc.Sessions))

	if err := writeReport(os.Stdout, doc.TripName, doc.Models(), formatter, *top); err != nil {
		logger.Error("Cannot write report", "error", err)
		os.Exit(1)
	}
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	return f, path, nil
}

// writeReport prints every session's balances and transfers, then the trip
// roll-up.
func writeReport(w io.Writer, tripName string, sessions []*models.Session, f *money.Formatter, top int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	inputs := make([]ledger.SessionInput, 0, len(sessions))

	fmt.Fprintf(tw, "%s\n", tripName)
	for _, s := range sessions {
		inputs = append(inputs, s.Input())

		report := ledger.Compute(s.Participants, s.Expenses)
		fmt.Fprintf(tw, "\n== %s (%d expenses, total %s)\n", s.Name, len(s.Expenses), f.Format(report.TotalCost))
		fmt.Fprintln(tw, "name\tpaid\tshare\tnet\t")
		for _, st := range report.Ordered(s.Participants) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", st.Name, f.Format(st.Paid), f.Format(st.Share), f.Format(st.Net))
		}

		settlements := ledger.PlanReport(report)
		if len(settlements) == 0 {
			fmt.Fprintln(tw, "Everyone is settled.")
			continue
		}
		fmt.Fprintln(tw, "Transfers:")
		for _, st := range settlements {
			mark := ""
			if session.IsSettlementPaid(s, session.SettlementKey(st)) {
				mark = " (paid)"
			}
			fmt.Fprintf(tw, "  %s -> %s: %s%s\n", st.From, st.To, f.Format(st.Amount), mark)
		}
	}

	summary := ledger.Summarize(inputs)
	fmt.Fprintf(tw, "\n== Trip total %s\n", f.Format(summary.TotalTripCost))
	fmt.Fprintln(tw, "name\tpaid\tshare\tnet\t")
	for _, p := range summary.Participants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", p.Name, f.Format(p.TotalPaid), f.Format(p.TotalShare), f.Format(p.Net))
	}

	if spenders := summary.TopSpenders(top); len(spenders) > 0 {
		fmt.Fprintln(tw, "Top spenders:")
		for i, p := range spenders {
			fmt.Fprintf(tw, "  %d. %s %s\n", i+1, p.Name, f.Format(p.TotalShare))
		}
	}

	return tw.Flush()
}

