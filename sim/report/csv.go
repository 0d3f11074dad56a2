package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvHeader is the stable schema of the exported record stream. Changing it
// breaks downstream analysis notebooks; don't.
var csvHeader = []string{"round", "alive_count", "node_id", "remaining_energy_j"}

// WriteCSV writes the record stream to path, one row per node per round,
// with the stable header round,alive_count,node_id,remaining_energy_j.
func WriteCSV(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating record stream file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Round),
			strconv.Itoa(rec.AliveCount),
			strconv.Itoa(rec.NodeID),
			strconv.FormatFloat(rec.RemainingEnergyJ, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
