package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"waste-collection-service/internal/domain"
)

func planFixture() (*memTrucks, *memBins, *memSpots) {
	trucks := &memTrucks{rows: []*domain.Truck{
		{ID: 1, TruckID: "TRUCK01", Status: domain.TruckIdle},
		{ID: 2, TruckID: "TRUCK02", Lat: math.NaN(), Status: domain.TruckIdle},
	}}
	bins := newMemBins(
		&domain.Bin{BinID: "BIN001", FillLevel: 80, Lon: 1},
		&domain.Bin{BinID: "BIN002", FillLevel: 40, Lon: 0.5},
		&domain.Bin{BinID: "BIN003", FillLevel: 150, Lon: 0.2},
		&domain.Bin{BinID: "BIN004", FillLevel: 95, Lon: 1.5},
	)
	spots := &memSpots{rows: []*domain.DumpingSpot{
		{ID: 1, SpotID: "DS01", Lon: 2, TotalCapacity: 1000},
		{ID: 2, SpotID: "DS02", Lon: -5, TotalCapacity: 1000},
	}}
	return trucks, bins, spots
}

func visitIDs(r domain.Route) []string {
	out := make([]string, 0, len(r.Visits))
	for _, v := range r.Visits {
		out = append(out, v.ID)
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlanCollectionSelectedBins(t *testing.T) {
	trucks, bins, spots := planFixture()

	plan, err := PlanCollection(context.Background(), PlanCollectionRequest{
		TruckID: "TRUCK01",
		BinIDs:  []string{"BIN001", " BIN002 ", "BIN001"},
	}, trucks, bins, spots)
	if err != nil {
		t.Fatalf("PlanCollection: %v", err)
	}

	if plan.Truck.TruckID != "TRUCK01" {
		t.Fatalf("truck = %q, want TRUCK01", plan.Truck.TruckID)
	}
	if len(plan.Bins) != 2 || plan.Bins[0].BinID != "BIN001" || plan.Bins[1].BinID != "BIN002" {
		t.Fatalf("bins not in request order without duplicates: %+v", plan.Bins)
	}
	if len(plan.DumpingSpots) != 2 {
		t.Fatalf("dumping spots = %d, want 2", len(plan.DumpingSpots))
	}

	want := []string{"BIN002", "BIN001", "DS01"}
	if got := visitIDs(plan.Route); !sameStrings(got, want) {
		t.Fatalf("visits = %v, want %v", got, want)
	}
	if len(plan.Route.Path) != 4 {
		t.Fatalf("path length = %d, want 4", len(plan.Route.Path))
	}
	if d := math.Abs(PathDistance(plan.Route.Path) - plan.Route.TotalDistanceKm); d > 1e-9 {
		t.Fatalf("total distance differs from path sum by %v", d)
	}
}

func TestPlanCollectionThreshold(t *testing.T) {
	trucks, bins, spots := planFixture()

	threshold := 50.0
	plan, err := PlanCollection(context.Background(), PlanCollectionRequest{
		TruckID:      "TRUCK01",
		MinFillLevel: &threshold,
	}, trucks, bins, spots)
	if err != nil {
		t.Fatalf("PlanCollection: %v", err)
	}

	// BIN003 reports a sensor fault (150) and must not be collected.
	want := []string{"BIN001", "BIN004", "DS01"}
	if got := visitIDs(plan.Route); !sameStrings(got, want) {
		t.Fatalf("visits = %v, want %v", got, want)
	}
}

func TestPlanCollectionErrors(t *testing.T) {
	high := 99.5

	tests := []struct {
		name string
		req  PlanCollectionRequest
		want error
	}{
		{"no selection", PlanCollectionRequest{TruckID: "TRUCK01"}, ErrNoStops},
		{"blank ids", PlanCollectionRequest{TruckID: "TRUCK01", BinIDs: []string{" ", ""}}, ErrNoStops},
		{"threshold matches nothing", PlanCollectionRequest{TruckID: "TRUCK01", MinFillLevel: &high}, ErrNoStops},
		{"unknown truck", PlanCollectionRequest{TruckID: "TRUCK99", BinIDs: []string{"BIN001"}}, domain.ErrNotFound},
		{"unknown bin", PlanCollectionRequest{TruckID: "TRUCK01", BinIDs: []string{"BIN001", "BIN404"}}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trucks, bins, spots := planFixture()
			_, err := PlanCollection(context.Background(), tt.req, trucks, bins, spots)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlanCollectionMissingTruckID(t *testing.T) {
	trucks, bins, spots := planFixture()
	if _, err := PlanCollection(context.Background(), PlanCollectionRequest{BinIDs: []string{"BIN001"}}, trucks, bins, spots); err == nil {
		t.Fatal("expected error for empty truck id")
	}
}

func TestPlanCollectionStrictInput(t *testing.T) {
	trucks, bins, spots := planFixture()
	req := PlanCollectionRequest{TruckID: "TRUCK02", BinIDs: []string{"BIN001"}}

	plan, err := PlanCollection(context.Background(), req, trucks, bins, spots)
	if err != nil {
		t.Fatalf("lenient mode should not fail: %v", err)
	}
	if !math.IsNaN(plan.Route.TotalDistanceKm) {
		t.Fatalf("total = %v, want NaN", plan.Route.TotalDistanceKm)
	}

	req.StrictInput = true
	_, err = PlanCollection(context.Background(), req, trucks, bins, spots)
	var inv *InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want *InvalidInputError", err)
	}
	if inv.Field != "origin.lat" {
		t.Fatalf("field = %q, want origin.lat", inv.Field)
	}
}

func TestPlanCollectionRepositoryError(t *testing.T) {
	trucks, bins, spots := planFixture()
	bins.err = errBoom

	_, err := PlanCollection(context.Background(), PlanCollectionRequest{
		TruckID: "TRUCK01",
		BinIDs:  []string{"BIN001"},
	}, trucks, bins, spots)
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want wrapped repository error", err)
	}
}
