package history

import (
	"fmt"
	"math"
	"time"
)

func BuildTrendReport(snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:     current.Timestamp,
			RunID:         current.RunID,
			DocumentCount: current.DocumentCount,
			IncludeEdges:  current.IncludeEdges,
			FunctionCount: current.FunctionCount,
			ErrorCount:    current.ErrorCount,
			WarningCount:  current.WarningCount,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaDocuments = current.DocumentCount - prev.DocumentCount
			point.DeltaEdges = current.IncludeEdges - prev.IncludeEdges
			point.DeltaFunctions = current.FunctionCount - prev.FunctionCount
			point.DeltaErrors = current.ErrorCount - prev.ErrorCount
			point.DeltaWarnings = current.WarningCount - prev.WarningCount
		}

		avgErrors, avgWarnings := movingAverages(snapshots, i, window)
		point.AvgErrors = round2(avgErrors)
		point.AvgWarnings = round2(avgWarnings)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverages(snapshots []Snapshot, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(snapshots[index].ErrorCount), float64(snapshots[index].WarningCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var errorsTotal int
	var warningsTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		errorsTotal += snapshots[i].ErrorCount
		warningsTotal += snapshots[i].WarningCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(errorsTotal) / float64(count), float64(warningsTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
