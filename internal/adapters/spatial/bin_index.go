package spatial

import (
	"sort"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/geo"
	"waste-collection-service/internal/ports"

	"github.com/tidwall/rtree"
)

type entry struct {
	bin   *domain.Bin
	order int
}

// BinIndex answers radius queries over a snapshot of bins.
// It is read-only after construction and safe for concurrent queries.
type BinIndex struct {
	tree rtree.RTreeG[entry]
	size int
}

func NewBinIndex(bins []*domain.Bin) *BinIndex {
	idx := &BinIndex{}
	for i, b := range bins {
		if b == nil {
			continue
		}
		p := [2]float64{b.Lon, b.Lat}
		idx.tree.Insert(p, p, entry{bin: b, order: i})
		idx.size++
	}
	return idx
}

// Build satisfies ports.BinIndexBuilder.
func Build(bins []*domain.Bin) ports.BinIndex { return NewBinIndex(bins) }

func (idx *BinIndex) Len() int { return idx.size }

// Within returns bins whose haversine distance to center is at most radiusKm,
// nearest first; equal distances keep the order the bins were indexed in.
func (idx *BinIndex) Within(center domain.Point, radiusKm float64) []domain.BinDistance {
	if radiusKm < 0 {
		return []domain.BinDistance{}
	}

	lo, hi := geo.BoundingBox(center, radiusKm)

	// Split the longitude range where it crosses the antimeridian.
	ranges := [][2]float64{{lo.Lon, hi.Lon}}
	if lo.Lon < -180 {
		ranges = [][2]float64{{-180, hi.Lon}, {lo.Lon + 360, 180}}
	} else if hi.Lon > 180 {
		ranges = [][2]float64{{lo.Lon, 180}, {-180, hi.Lon - 360}}
	}

	seen := make(map[int]bool)
	var found []entry
	for _, r := range ranges {
		idx.tree.Search(
			[2]float64{r[0], lo.Lat},
			[2]float64{r[1], hi.Lat},
			func(_, _ [2]float64, e entry) bool {
				if !seen[e.order] {
					seen[e.order] = true
					found = append(found, e)
				}
				return true
			},
		)
	}

	type scored struct {
		entry
		km float64
	}
	candidates := make([]scored, 0, len(found))
	for _, e := range found {
		km := geo.Haversine(center, e.bin.Point())
		if km <= radiusKm {
			candidates = append(candidates, scored{entry: e, km: km})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].km != candidates[j].km {
			return candidates[i].km < candidates[j].km
		}
		return candidates[i].order < candidates[j].order
	})

	hits := make([]domain.BinDistance, len(candidates))
	for i, c := range candidates {
		hits[i] = domain.BinDistance{Bin: c.bin, DistanceKm: c.km}
	}
	return hits
}
