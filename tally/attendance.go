// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "fmt"

// NotAvailable is reported when the eligible voter count is unset
const NotAvailable = "N/A"

// CalculateAttendanceRatio formats ballots cast over eligible voters as a
// percentage with one decimal. Ratios over 100% are reported unchanged.
func CalculateAttendanceRatio(ballotsCount, totalAllowedVoters int) string {
	if totalAllowedVoters <= 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", float64(ballotsCount)/float64(totalAllowedVoters)*100)
}
