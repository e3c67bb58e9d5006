package export

import (
	"fmt"
	"strconv"

	"github.com/gridstats/nfl-export/internal/frame"
)

// contractYearColumns is the shape ExplodeContracts produces.
var contractYearColumns = []string{
	"otc_id", "year", "contractSalary",
	"contractCreateDate", "contractExpireDate",
	"year_signed", "years",
}

// ExplodeContracts expands each contract record into one row per covered
// year: the contiguous range [year_signed, year_signed+years). Salary,
// year_signed and years carry forward onto every exploded row; a missing or
// null years counts as 1. Start and end dates are synthesized as March 1 of
// year_signed and of year_signed+years. Records without a provider id or
// signing year are dropped.
func ExplodeContracts(contracts *frame.Frame) *frame.Frame {
	out := frame.New(contractYearColumns)
	if contracts.Len() == 0 || !contracts.Has("otc_id") || !contracts.Has("year_signed") {
		return out
	}

	for i := 0; i < contracts.Len(); i++ {
		row := contracts.Row(i)
		otcID := row.Get("otc_id")
		signed, ok := row.Int("year_signed")
		if otcID == "" || !ok {
			continue
		}
		years, ok := row.Int("years")
		if !ok || years < 1 {
			years = 1
		}

		salary := row.Get("apy")
		createDate := marchFirst(signed)
		expireDate := marchFirst(signed + years)
		signedStr := strconv.FormatInt(signed, 10)
		yearsStr := strconv.FormatInt(years, 10)

		for year := signed; year < signed+years; year++ {
			out.Append([]string{
				otcID,
				strconv.FormatInt(year, 10),
				salary,
				createDate,
				expireDate,
				signedStr,
				yearsStr,
			})
		}
	}
	return out
}

// marchFirst renders March 1 of the given year as an ISO date. Out-of-range
// source years produce the "0000"-prefixed sentinel the clean pass repairs.
func marchFirst(year int64) string {
	return fmt.Sprintf("%04d-03-01", year)
}
