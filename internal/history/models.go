package history

import "time"

const SchemaVersion = 1

// Snapshot records one workspace scan: how big the document graph was and
// how many diagnostics each severity produced.
type Snapshot struct {
	RunID          string
	SchemaVersion  int
	Timestamp      time.Time
	DocumentCount  int
	IncludeEdges   int
	FunctionCount  int
	ErrorCount     int
	WarningCount   int
	InfoCount      int
	HintCount      int
	ParseMillis    float64
}

// TrendPoint is one snapshot annotated with deltas against its predecessor
// and moving averages over the report window.
type TrendPoint struct {
	Timestamp     time.Time
	RunID         string
	DocumentCount int
	IncludeEdges  int
	FunctionCount int
	ErrorCount    int
	WarningCount  int

	DeltaDocuments int
	DeltaEdges     int
	DeltaFunctions int
	DeltaErrors    int
	DeltaWarnings  int

	AvgErrors   float64
	AvgWarnings float64
	WindowHours float64
}

type TrendReport struct {
	SchemaVersion int
	Since         time.Time
	Until         time.Time
	Window        string
	ScanCount     int
	Points        []TrendPoint
}
