package sheets

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// fakeAPI — хранилище в памяти с минимальным разбором A1-диапазонов.
type fakeAPI struct {
	mu     sync.Mutex
	sheets map[string][][]string // "" — первый лист
	fail   error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{sheets: make(map[string][][]string)}
}

func (f *fakeAPI) Get(_ context.Context, _ string, rng string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	sheet, r1, c1, r2, c2 := parseRangeA1(rng)
	grid, ok := f.sheets[sheet]
	if !ok {
		return nil, ErrNotFound
	}
	if r2 == 0 {
		r2 = len(grid)
	}
	if r2 > len(grid) {
		r2 = len(grid)
	}
	var out [][]string
	for r := r1; r <= r2; r++ {
		row := grid[r-1]
		hi := c2
		if hi == 0 || hi > len(row) {
			hi = len(row)
		}
		if c1 > hi {
			out = append(out, nil)
			continue
		}
		out = append(out, append([]string(nil), row[c1-1:hi]...))
	}
	return out, nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	sheet, r1, c1, _, _ := parseRangeA1(rng)
	grid, ok := f.sheets[sheet]
	if !ok {
		return ErrNotFound
	}
	for i, row := range values {
		for j, v := range row {
			grid = setCell(grid, r1+i, c1+j, toStr(v))
		}
	}
	f.sheets[sheet] = grid
	return nil
}

func (f *fakeAPI) Append(_ context.Context, _ string, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	sheet, _, _, _, _ := parseRangeA1(rng)
	grid := f.sheets[sheet]
	for _, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = toStr(v)
		}
		grid = append(grid, cells)
	}
	f.sheets[sheet] = grid
	return nil
}

func setCell(grid [][]string, r, c int, v string) [][]string {
	for len(grid) < r {
		grid = append(grid, nil)
	}
	row := grid[r-1]
	for len(row) < c {
		row = append(row, "")
	}
	row[c-1] = v
	grid[r-1] = row
	return grid
}

func toStr(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return strconv.Itoa(v.(int))
}

func parseRangeA1(rng string) (sheet string, r1, c1, r2, c2 int) {
	if i := strings.Index(rng, "!"); i >= 0 {
		sheet = strings.Trim(rng[:i], "'")
		rng = rng[i+1:]
	}
	parts := strings.SplitN(rng, ":", 2)
	c1, r1 = parseCellA1(parts[0])
	if r1 == 0 {
		r1 = 1
	}
	if len(parts) == 2 {
		c2, r2 = parseCellA1(parts[1])
	} else {
		c2, r2 = c1, r1
	}
	return
}

func parseCellA1(s string) (col, row int) {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A') + 1
		i++
	}
	row, _ = strconv.Atoi(s[i:])
	return
}
