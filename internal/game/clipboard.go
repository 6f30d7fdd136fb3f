package game

import (
	"time"

	"github.com/atotto/clipboard"
)

// reportLogLines is how many session log lines the exported report carries.
const reportLogLines = 40

func writeClipboard(s string) error { return clipboard.WriteAll(s) }

// copyReport puts the session report on the system clipboard.
func (g *Game) copyReport(now time.Duration) {
	if err := g.writeClipboard(g.sim.Report(reportLogLines)); err != nil {
		g.logger.Warn("copy report failed", "err", err)
		g.flash(now, "clipboard unavailable")
		return
	}
	g.flash(now, "report copied")
}
