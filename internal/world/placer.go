// Territory placement: picks well-separated capitals and splits the map
// between factions.
package world

import "sort"

// Territories is the result of PartitionTerritories.
type Territories struct {
	Capitals []int // Seed index of each faction's capital
	Owner    []int // Faction index per seed
}

// PartitionTerritories picks one capital per faction by farthest-point
// sampling, then gives every other region to the faction with the nearest
// capital. Ties go to the lower faction index. Output is deterministic for a
// given seed order.
func PartitionTerritories(seeds []RegionSeed, factions int) Territories {
	if factions <= 0 || len(seeds) == 0 {
		return Territories{Owner: make([]int, len(seeds))}
	}
	if factions > len(seeds) {
		factions = len(seeds)
	}

	// First capital: the largest region (lowest index wins ties).
	order := make([]int, len(seeds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return seeds[order[a]].Area > seeds[order[b]].Area
	})

	capitals := []int{order[0]}
	taken := map[int]bool{order[0]: true}

	for len(capitals) < factions {
		best, bestDist := -1, -1
		for i, s := range seeds {
			if taken[i] {
				continue
			}
			d := minDistance(s.Centre, seeds, capitals)
			if d > bestDist {
				best, bestDist = i, d
			}
		}
		capitals = append(capitals, best)
		taken[best] = true
	}

	owner := make([]int, len(seeds))
	for i, s := range seeds {
		bestF, bestD := 0, -1
		for f, c := range capitals {
			d := DistanceSq(s.Centre, seeds[c].Centre)
			if bestD < 0 || d < bestD {
				bestF, bestD = f, d
			}
		}
		owner[i] = bestF
	}

	return Territories{Capitals: capitals, Owner: owner}
}

func minDistance(p Point, seeds []RegionSeed, chosen []int) int {
	best := -1
	for _, c := range chosen {
		d := DistanceSq(p, seeds[c].Centre)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
