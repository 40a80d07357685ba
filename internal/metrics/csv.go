package metrics

import (
	"encoding/csv"
	"io"
	"strconv"

	"uav-aoi-sim/internal/telemetry"
)

// Header is the log.csv column order.
var Header = []string{
	"time_s",
	"energy_Wh",
	"E_fly_total",
	"E_hover_total",
	"E_tx_total",
	"uav_x",
	"uav_y",
	"served_node",
	"aoi_avg",
	"aoi_max",
	"success",
}

// Record formats a row in Header order.
func Record(r telemetry.StepRow) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		f(r.TimeS),
		f(r.EnergyWh),
		f(r.EFlyTotal),
		f(r.EHoverTotal),
		f(r.ETxTotal),
		f(r.UAVX),
		f(r.UAVY),
		strconv.Itoa(r.ServedNode),
		f(r.AoIAvg),
		f(r.AoIMax),
		strconv.FormatBool(r.Success),
	}
}

// WriteCSV writes rows to CSV with the fixed column order.
func WriteCSV(w io.Writer, rows []telemetry.StepRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(Record(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
