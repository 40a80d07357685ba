package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"uav-aoi-sim/internal/telemetry"
)

// ReadCSV loads a step log from a CSV file.
func ReadCSV(path string) ([]telemetry.StepRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readCSV(file)
}

// readCSV maps columns by header name, so logs without the success column
// still load.
func readCSV(r io.Reader) ([]telemetry.StepRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range Header[:len(Header)-1] {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("log header missing column %q", name)
		}
	}

	rows := make([]telemetry.StepRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(records[0]) {
			return nil, fmt.Errorf("invalid record at line %d", i+1)
		}
		num := func(name string) (float64, error) {
			v, err := strconv.ParseFloat(rec[col[name]], 64)
			if err != nil {
				return 0, fmt.Errorf("invalid %s at line %d: %w", name, i+1, err)
			}
			return v, nil
		}
		var row telemetry.StepRow
		fields := []struct {
			name string
			dst  *float64
		}{
			{"time_s", &row.TimeS},
			{"energy_Wh", &row.EnergyWh},
			{"E_fly_total", &row.EFlyTotal},
			{"E_hover_total", &row.EHoverTotal},
			{"E_tx_total", &row.ETxTotal},
			{"uav_x", &row.UAVX},
			{"uav_y", &row.UAVY},
			{"aoi_avg", &row.AoIAvg},
			{"aoi_max", &row.AoIMax},
		}
		for _, fld := range fields {
			v, err := num(fld.name)
			if err != nil {
				return nil, err
			}
			*fld.dst = v
		}
		served, err := num("served_node")
		if err != nil {
			return nil, err
		}
		row.ServedNode = int(served)
		if idx, ok := col["success"]; ok {
			row.Success, _ = strconv.ParseBool(rec[idx])
		}
		row.Step = i
		rows = append(rows, row)
	}
	return rows, nil
}
