// Package tourismtest builds statistics sheets in the published layout for tests.
package tourismtest

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// Arrivals are the 1991-2015 international arrivals used across tests.
var Arrivals = []string{
	"2384", "2850", "2974", "3971", "4765", "5138", "5363", "6203", "7158", "7559",
	"6393", "5599", "6261", "9249", "13626", "17344", "21094", "27636", "23480", "40873",
	"64028", "105407", "116209", "133480", "155121",
}

// ArrivalsThrough2020 extends Arrivals with 2016-2020.
var ArrivalsThrough2020 = append(append([]string(nil), Arrivals...),
	"209570", "254704", "274097", "315599", "320000")

// rows is the number of rows in the published sheet: header, arrival
// breakdowns, a five-row notes block at 10-14 and a trailing source row.
const rows = 16

// Sheet renders a CSV in the published layout, with one column per entry of
// counts starting at 1991. Row 5 holds the totals; the other rows hold
// breakdown figures that the reshape must discard.
func Sheet(counts []string) string {
	width := 3 + len(counts)
	records := make([][]string, rows)
	for i := range records {
		records[i] = make([]string, width)
	}

	records[0][0], records[0][1], records[0][2] = "Sl. No.", "Indicator", "Unit"
	for j := range counts {
		records[0][3+j] = "Year " + strconv.Itoa(1991+j)
	}

	for i := 1; i < rows; i++ {
		records[i][0] = strconv.Itoa(i)
		records[i][1] = "Indicator " + strconv.Itoa(i)
		records[i][2] = "Number"
		for j := range counts {
			switch {
			case i == 5:
				records[i][3+j] = counts[j]
			case i >= 10 && i <= 14:
				records[i][3+j] = "note"
			default:
				records[i][3+j] = strconv.Itoa(i*100 + j)
			}
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(records)
	return buf.String()
}
