package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StaffRankService/internal/models/domain"
	"StaffRankService/internal/scoring"
	"StaffRankService/internal/utils/logger/sl"
)

// sendDigest runs the pipeline for the named period and replies with a
// Markdown top-N summary.
func (digestBot *Bot) sendDigest(ctx context.Context, chatID int64, period string) error {
	op := "telegram.sendDigest"

	window, err := domain.ResolveWindow(period, time.Now())
	if err != nil {
		return digestBot.sendReply(ctx, chatID,
			"Unknown period. Use daily, weekly, monthly, quarterly, or yearly.")
	}

	req := scoring.Request{
		Window:      window,
		MinTickets:  digestBot.cfg.Report.MinTickets,
		RankingBy:   domain.RankByOverall,
		ScorePolicy: domain.ScorePolicy(digestBot.cfg.Report.ScorePolicy),
		TierPolicy:  domain.TierPolicy(digestBot.cfg.Report.TierPolicy),
	}

	report, err := digestBot.pipeline.Run(ctx, req)
	if err != nil {
		digestBot.log.Error("digest report failed", sl.Err(err))
		return digestBot.sendReply(ctx, chatID,
			"Report is unavailable right now, try again later.")
	}

	if err := digestBot.sendMarkdown(ctx, chatID, formatDigest(report, period, digestBot.cfg.Report.DigestSize)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// formatDigest renders the top N ranked staff plus the summary block.
func formatDigest(report *domain.Report, period string, topN int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Staff performance: %s*\n", period)
	fmt.Fprintf(&b, "_%s to %s_\n\n",
		report.Window.Start.Format("2006-01-02"),
		report.Window.End.Format("2006-01-02"))

	if len(report.Records) == 0 {
		b.WriteString("No staff met the minimum activity threshold for this period.\n")
		return b.String()
	}

	if topN <= 0 || topN > len(report.Records) {
		topN = len(report.Records)
	}
	for _, rec := range report.Records[:topN] {
		fmt.Fprintf(&b, "%d. *%s* (%s) - %.2f, %s\n",
			rec.OverallRank, rec.Staff.Name, rec.Staff.Department,
			rec.OverallScore, rec.Tier)
	}

	fmt.Fprintf(&b, "\nRanked: %d | avg %.2f | max %.2f | min %.2f\n",
		report.Summary.TotalRanked,
		report.Summary.AvgOverall,
		report.Summary.MaxOverall,
		report.Summary.MinOverall)

	return b.String()
}
