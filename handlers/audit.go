// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/vote-counter/models"
)

// WriteAudit renders the summary as a plain-text sheet. latest, when set,
// is the most recent persisted snapshot; its age is measured against now.
func WriteAudit(out io.Writer, summary models.ResultSummary, latest *models.ResultSnapshot, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "VOTE COUNT AUDIT\n\n")
	fmt.Fprintf(w, "Ballots:\t%s\n", humanize.Comma(int64(summary.BallotCount)))
	if summary.TotalAllowedVoters > 0 {
		fmt.Fprintf(w, "Allowed voters:\t%s\n", humanize.Comma(int64(summary.TotalAllowedVoters)))
	}
	fmt.Fprintf(w, "Attendance:\t%s\n", summary.AttendanceRatio)
	fmt.Fprintf(w, "Valid votes:\t%s\n", humanize.Comma(int64(summary.TotalValidVotes)))
	fmt.Fprintf(w, "Divisor coefficient:\t%s\n", strconv.FormatFloat(summary.ElectoralDivisorVariable, 'f', -1, 64))

	for _, p := range summary.Positions {
		fmt.Fprintf(w, "\n%s\t(%d per ballot, %s)\n", p.Title, p.MaxVotesPerBallot, vacancies(p.MaxVacancies))
		fmt.Fprintf(w, "  Electoral divisor:\t%d\t%s\n", p.ElectoralDivisor, p.DivisorFormula)
		for _, c := range p.Results {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", c.Name, humanize.Comma(int64(c.Votes)), c.Status)
		}
		fmt.Fprintf(w, "  Blank\t%s\t\n", humanize.Comma(int64(p.BlankVotes)))
		fmt.Fprintf(w, "  Invalid\t%s\t\n", humanize.Comma(int64(p.InvalidVotes)))
		fmt.Fprintf(w, "  Checksum\t%s\t\n", humanize.BigComma(p.Checksum))
	}

	fmt.Fprintf(w, "\nTotal checksum:\t%s\n", humanize.BigComma(summary.TotalChecksum))
	fmt.Fprintf(w, "Total checksum by positions:\t%s\n", humanize.BigComma(summary.TotalChecksumByPositions))

	if latest != nil {
		fmt.Fprintf(w, "Last snapshot:\t%s (%s)\n", latest.ID, humanize.RelTime(latest.ComputedAt, now, "ago", "from now"))
	} else {
		fmt.Fprintf(w, "Last snapshot:\tnone\n")
	}

	return w.Flush()
}

func vacancies(n int) string {
	if n == 1 {
		return "1 vacancy"
	}
	return fmt.Sprintf("%d vacancies", n)
}
