package partlist

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the report as comma-separated values with a header
// row. Dimensions stay in mm, weight in kg.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"material", "name", "type", "count",
		"total_length_mm", "total_area_mm2", "total_volume_mm3", "total_weight_kg",
	}); err != nil {
		return err
	}
	for _, line := range r.Lines {
		record := []string{
			string(line.Material),
			line.Name,
			string(line.Type),
			strconv.Itoa(line.Count),
			strconv.FormatFloat(line.TotalLength, 'f', 0, 64),
			strconv.FormatFloat(line.TotalArea, 'f', 0, 64),
			strconv.FormatFloat(line.TotalVolume, 'f', 0, 64),
			strconv.FormatFloat(line.TotalWeight, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
