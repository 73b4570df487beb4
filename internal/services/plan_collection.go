package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"
)

// ErrNoStops is returned when a plan request selects no bins at all.
var ErrNoStops = errors.New("no bins selected")

type PlanCollectionRequest struct {
	TruckID string
	BinIDs  []string
	// When BinIDs is empty, every bin with a valid fill at or above this level is collected.
	MinFillLevel *float64
	StrictInput  bool
}

// A planned route together with the entities it was built from.
type CollectionPlan struct {
	Truck        *domain.Truck
	Bins         []*domain.Bin
	DumpingSpots []*domain.DumpingSpot
	Route        domain.Route
}

// PlanCollection loads the truck, the selected bins and every dumping spot,
// then plans a greedy route from the truck through the bins to the closest spot.
func PlanCollection(
	ctx context.Context,
	req PlanCollectionRequest,
	trucks ports.TruckRepository,
	bins ports.BinRepository,
	spots ports.DumpingSpotRepository,
) (plan *CollectionPlan, err error) {
	defer obs.Time(ctx, "plan_collection")(&err)

	truckID := strings.TrimSpace(req.TruckID)
	if truckID == "" {
		return nil, fmt.Errorf("plan collection: truck id is required")
	}
	if len(req.BinIDs) == 0 && req.MinFillLevel == nil {
		return nil, fmt.Errorf("plan collection: %w", ErrNoStops)
	}

	truck, err := trucks.GetByTruckID(ctx, truckID)
	if err != nil {
		return nil, fmt.Errorf("plan collection: get truck %q: %w", truckID, err)
	}

	selected, err := selectBins(ctx, req, bins)
	if err != nil {
		return nil, fmt.Errorf("plan collection: %w", err)
	}

	spotList, err := spots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan collection: list dumping spots: %w", err)
	}

	stops := make([]domain.Stop, 0, len(selected))
	for _, b := range selected {
		stops = append(stops, b.Stop())
	}
	terminals := make([]domain.Terminal, 0, len(spotList))
	for _, s := range spotList {
		terminals = append(terminals, s.Terminal())
	}

	var route domain.Route
	if req.StrictInput {
		route, err = ComputeRouteStrict(truck.Origin(), stops, terminals)
		if err != nil {
			return nil, fmt.Errorf("plan collection: %w", err)
		}
	} else {
		route = ComputeRoute(truck.Origin(), stops, terminals)
	}

	return &CollectionPlan{
		Truck:        truck,
		Bins:         selected,
		DumpingSpots: spotList,
		Route:        route,
	}, nil
}

// selectBins returns bins in the caller's order, dropping repeated IDs.
func selectBins(ctx context.Context, req PlanCollectionRequest, repo ports.BinRepository) ([]*domain.Bin, error) {
	if len(req.BinIDs) == 0 {
		all, err := repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bins: %w", err)
		}

		threshold := *req.MinFillLevel
		out := make([]*domain.Bin, 0, len(all))
		for _, b := range all {
			if b.HasValidFill() && b.FillLevel >= threshold {
				out = append(out, b)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("no bin at or above %.1f%%: %w", threshold, ErrNoStops)
		}
		return out, nil
	}

	ids := make([]string, 0, len(req.BinIDs))
	seen := make(map[string]bool, len(req.BinIDs))
	for _, id := range req.BinIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNoStops
	}

	found, err := repo.ListByBinIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list bins by id: %w", err)
	}
	byID := make(map[string]*domain.Bin, len(found))
	for _, b := range found {
		byID[b.BinID] = b
	}

	out := make([]*domain.Bin, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("bin %q: %w", id, domain.ErrNotFound)
		}
		out = append(out, b)
	}
	return out, nil
}
