package shelf

import (
	"fmt"
	"strings"
)

// DefaultPageSize is the number of games shown per page of the collection.
const DefaultPageSize = 12

// CollectionView is the in-memory projection of the active user's games.
//
// It is loaded once when the collection is opened and then only derived
// from: filtering and paging never touch the record store. The one mutation
// is Remove, applied after the repository has confirmed a delete.
type CollectionView struct {
	games []Game
}

// NewCollectionView creates a view over a copy of games.
func NewCollectionView(games []Game) *CollectionView {
	v := &CollectionView{}
	v.Load(games)
	return v
}

// Load replaces the held set with a copy of games.
func (v *CollectionView) Load(games []Game) {
	v.games = append([]Game(nil), games...)
}

// All returns a copy of the held set.
func (v *CollectionView) All() []Game {
	return append([]Game(nil), v.games...)
}

// Len returns the number of held games.
func (v *CollectionView) Len() int {
	return len(v.games)
}

// Remove drops the game with the given ID from the held set.
func (v *CollectionView) Remove(id int64) {
	kept := v.games[:0]
	for _, g := range v.games {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	v.games = kept
}

// Filtered returns the games whose title contains search (case-insensitive)
// and, when platform is set, whose platform equals it. Order is preserved.
func (v *CollectionView) Filtered(search string, platform Platform) []Game {
	needle := strings.ToLower(search)
	out := make([]Game, 0, len(v.games))
	for _, g := range v.games {
		if platform != "" && g.Platform != platform {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(g.Title), needle) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Paginate returns items[page*pageSize : page*pageSize+pageSize], clipped to
// the slice. Pages past the end and non-positive sizes yield an empty slice.
func Paginate(items []Game, page, pageSize int) []Game {
	if page < 0 || pageSize <= 0 || len(items) == 0 {
		return []Game{}
	}
	// Compare pages before multiplying so huge pages cannot overflow.
	if page > (len(items)-1)/pageSize {
		return []Game{}
	}
	start := page * pageSize
	end := min(start+pageSize, len(items))
	return append([]Game(nil), items[start:end]...)
}

// TotalPages returns how many pages of pageSize are needed for n items.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 0
	}
	return (n-1)/pageSize + 1
}

// ClampPage moves page back to the first page when it falls past the last
// one, which happens after a filter narrows the result set.
func ClampPage(page, totalPages int) int {
	if page < 0 {
		return 0
	}
	if totalPages > 0 && page >= totalPages {
		return 0
	}
	return page
}

// TotalPrice sums the price of items, counting unset prices as zero.
func TotalPrice(items []Game) float64 {
	var total float64
	for i := range items {
		total += items[i].PriceValue()
	}
	return total
}

// Query selects one page of the collection.
type Query struct {
	Search   string
	Platform Platform
	// Where is an optional boolean expression over game fields,
	// e.g. `price > 20 && !platinum`.
	Where    string
	Page     int
	PageSize int
}

// Page is one page of a filtered collection plus totals over the whole
// filtered set.
type Page struct {
	Items      []Game  `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalItems int     `json:"totalItems"`
	TotalPages int     `json:"totalPages"`
	TotalPrice float64 `json:"totalPrice"`
}

// View filters, pages and totals the held set in one call.
func (v *CollectionView) View(q Query) (Page, error) {
	filtered := v.Filtered(q.Search, q.Platform)

	if strings.TrimSpace(q.Where) != "" {
		w, err := CompileWhere(q.Where)
		if err != nil {
			return Page{}, err
		}
		filtered, err = w.Filter(filtered)
		if err != nil {
			return Page{}, fmt.Errorf("applying filter: %w", err)
		}
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := TotalPages(len(filtered), size)
	page := ClampPage(q.Page, pages)

	return Page{
		Items:      Paginate(filtered, page, size),
		Page:       page,
		PageSize:   size,
		TotalItems: len(filtered),
		TotalPages: pages,
		TotalPrice: TotalPrice(filtered),
	}, nil
}
