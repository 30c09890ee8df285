package vtcore

import "sort"

// Region is a contiguous horizontal run of modified cells on one row,
// covering columns [StartCol, EndCol).
type Region struct {
	Row      int
	StartCol int
	EndCol   int
}

// TakeDamage drains the active buffer's accumulated per-cell dirty flags
// into a row-grouped, column-coalesced list of Regions and clears the dirty
// state, ready for the next frame. Unlike DirtyCells (one Position per
// modified cell), TakeDamage merges adjacent columns on the same row into a
// single Region, which is the shape a renderer wants for a damage-rect blit.
func (t *Terminal) TakeDamage() []Region {
	t.mu.Lock()
	defer t.mu.Unlock()

	positions := t.activeBuffer.DirtyCells()
	t.activeBuffer.ClearAllDirty()

	return coalesceRegions(positions)
}

// coalesceRegions groups positions by row and merges consecutive columns
// within a row into single Regions.
func coalesceRegions(positions []Position) []Region {
	if len(positions) == 0 {
		return nil
	}

	byRow := make(map[int][]int)
	for _, p := range positions {
		byRow[p.Row] = append(byRow[p.Row], p.Col)
	}

	rows := make([]int, 0, len(byRow))
	for row := range byRow {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	var regions []Region
	for _, row := range rows {
		cols := byRow[row]
		sort.Ints(cols)

		start := cols[0]
		end := cols[0] + 1
		for _, c := range cols[1:] {
			if c == end {
				end = c + 1
				continue
			}
			regions = append(regions, Region{Row: row, StartCol: start, EndCol: end})
			start = c
			end = c + 1
		}
		regions = append(regions, Region{Row: row, StartCol: start, EndCol: end})
	}

	return regions
}
