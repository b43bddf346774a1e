// Package history is the address-history accumulator: how many months of
// address history has the applicant provided, and is it enough. Its result
// gates every branching decision in the step sequencer.
package history

import (
	"strconv"

	"leadgate/internal/wizard/models"
)

// MinMonths is the history the lender requires before the employment phase
// can begin: three years.
const MinMonths = 36

// TotalMonths sums the current address duration and every previous address
// duration. Empty or unparseable values count as zero; the accumulator
// never reports "indeterminate".
func TotalMonths(st *models.State) int {
	total := months(st.AddressDurationYears, st.AddressDurationMonths)
	for _, prev := range st.PreviousAddresses {
		total += months(prev.DurationYears, prev.DurationMonths)
	}
	return total
}

// NeedsMore reports whether another previous address must be collected:
// true only while the total is under MinMonths and the previous-address
// list has room under maxPrevious.
func NeedsMore(st *models.State, maxPrevious int) bool {
	return TotalMonths(st) < MinMonths && len(st.PreviousAddresses) < maxPrevious
}

func months(years, mths string) int {
	return atoi(years)*12 + atoi(mths)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
