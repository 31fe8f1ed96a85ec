package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// ConsoleSender writes notifications to a writer, stdout by default.
type ConsoleSender struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSender returns a sender writing to stdout.
func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{out: os.Stdout}
}

// NewConsoleWriter returns a sender writing to w.
func NewConsoleWriter(w io.Writer) *ConsoleSender {
	return &ConsoleSender{out: w}
}

// Send implements Sender.
func (c *ConsoleSender) Send(_ context.Context, title, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "%s\n%s\n\n", title, message)
	return err
}

// Name returns the sender identifier.
func (c *ConsoleSender) Name() string { return "console" }

// WriteReport renders a cycle snapshot as a table, one row per opportunity
// in ranked order.
func WriteReport(w io.Writer, snap domain.CycleSnapshot) {
	fmt.Fprintf(w, "[%s] run %s: %d polymarket / %d kalshi markets, %d pairs, %d opportunities\n",
		snap.StartedAt.Format(time.RFC3339), snap.RunID,
		snap.PolymarketMarkets, snap.KalshiMarkets, snap.MatchedPairs, len(snap.Opportunities))
	for _, f := range snap.Failures {
		fmt.Fprintf(w, "  failed: %s\n", f)
	}
	if len(snap.Opportunities) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Sport", "Match", "Kind", "Opt", "Margin", "Leg 1", "Leg 2", "Stake", "Profit")
	for i, o := range snap.Opportunities {
		table.Append(
			fmt.Sprintf("%d", i+1),
			string(o.Sport),
			o.MatchLabel,
			string(o.Kind),
			string(o.ChosenOption),
			fmt.Sprintf("%.2f%%", o.ProfitMarginPercent),
			legCell(o.Legs[0]),
			legCell(o.Legs[1]),
			fmt.Sprintf("$%.2f", o.TotalStake),
			fmt.Sprintf("$%.2f", o.ProfitAmount),
		)
	}
	table.Render()
}

func legCell(l domain.Leg) string {
	return fmt.Sprintf("%s %s @ %.3f", l.Platform, l.Side, l.Price)
}
