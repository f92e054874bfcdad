package favorites

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Map records which entry ids are favorited. An absent key means false.
type Map map[int]bool

// Has reports whether id is an effective favorite.
func (m Map) Has(id int) bool {
	return m[id]
}

// IDs returns the effective favorite ids in ascending order.
func (m Map) IDs() []int {
	ids := make([]int, 0, len(m))
	for id, fav := range m {
		if fav {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of effective favorites.
func (m Map) Len() int {
	n := 0
	for _, fav := range m {
		if fav {
			n++
		}
	}
	return n
}

// Clone returns an independent copy holding only true values.
func (m Map) Clone() Map {
	dup := make(Map, len(m))
	for id, fav := range m {
		if fav {
			dup[id] = true
		}
	}
	return dup
}

// encode serializes the effective favorites as {"<id>": true}.
func (m Map) encode() ([]byte, error) {
	out := make(map[string]bool, len(m))
	for id, fav := range m {
		if fav {
			out[strconv.Itoa(id)] = true
		}
	}
	return json.Marshal(out)
}

func decode(data []byte) (Map, error) {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal favorites: %w", err)
	}
	m := make(Map, len(raw))
	for key, fav := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("favorite id %q: %w", key, err)
		}
		if fav {
			m[id] = true
		}
	}
	return m, nil
}
