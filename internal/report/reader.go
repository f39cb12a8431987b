package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/newthinker/hodback/internal/core"
)

// ReadCSV parses a results CSV back into a ledger. Together with
// WriteCSV it makes a saved ledger replayable into summary statistics
// without re-running the simulation.
func ReadCSV(r io.Reader) ([]core.Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 9

	var trades []core.Trade
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		if first {
			first = false
			if rec[0] == "symbol" {
				continue
			}
		}

		t := core.Trade{Symbol: rec[0], Reason: core.ExitReason(rec[8])}
		if t.EntryTime, err = time.Parse(timeLayout, rec[1]); err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		if t.EntryPrice, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		if t.ExitTime, err = time.Parse(timeLayout, rec[3]); err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		if t.ExitPrice, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		if t.Shares, err = strconv.Atoi(rec[5]); err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		if t.PnL, err = strconv.ParseFloat(rec[6], 64); err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		if t.PnLPct, err = strconv.ParseFloat(rec[7], 64); err != nil {
			return nil, core.WrapError(core.ErrReportFailed, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}
