package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/insights"
	"github.com/tally-dev/tally/internal/report"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Aliases: []string{"dashboard"},
		Short:   "Show totals, monthly trend, spending by category and recent activity",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				now := opts.now()
				txs := s.tracker.Transactions()
				dash := s.cfg.Dashboard

				d := report.Dashboard{
					Now:      now,
					Summary:  insights.Summarize(txs),
					Trend:    insights.MonthlyTrend(txs, now, dash.TrendMonths),
					Spending: insights.SpendingByCategory(txs, s.tracker.Categories()),
					Recent:   insights.Recent(txs, now, time.Duration(dash.RecentDays)*24*time.Hour, dash.RecentLimit),
				}
				return report.WriteDashboard(cmd.OutOrStdout(), d, s.symbol())
			})
		},
	}
}
