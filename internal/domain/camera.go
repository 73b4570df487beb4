package domain

import (
	"fmt"
	"time"
)

type AnalysisType string

const (
	AnalysisWasteDetection AnalysisType = "WASTE_DETECTION"
	AnalysisFillLevel      AnalysisType = "FILL_LEVEL"
	AnalysisGeneral        AnalysisType = "GENERAL"
	AnalysisMaintenance    AnalysisType = "MAINTENANCE"
)

func ParseAnalysisType(s string) (AnalysisType, error) {
	switch AnalysisType(s) {
	case "":
		return AnalysisGeneral, nil
	case AnalysisWasteDetection, AnalysisFillLevel, AnalysisGeneral, AnalysisMaintenance:
		return AnalysisType(s), nil
	}
	return "", fmt.Errorf("parse analysis type: unknown type %q", s)
}

// A camera mounted near a bin or a collection area.
type Camera struct {
	ID       int64
	CameraID string
	Name     string
	BinID    string
	Lat      float64
	Lon      float64
	Active   bool
}

// An uploaded camera frame and its stored thumbnail.
type CameraImage struct {
	ID            int64
	CameraID      int64
	AnalysisType  AnalysisType
	Path          string
	ThumbnailPath string
	Width         int
	Height        int
	SizeBytes     int64
	UploadedAt    time.Time
}
