package engine

import (
	"strconv"
	"strings"

	"github.com/piwi3910/BoardCut/internal/model"
)

// Group merges cut lists with the same supply and the same ordered part
// indices, summing their quantities. Output keeps the order in which each
// pattern first appears. Group(Group(x)) equals Group(x).
func Group(cutLists []model.CutList) []model.CutList {
	if len(cutLists) == 0 {
		return nil
	}

	index := make(map[string]int, len(cutLists))
	grouped := make([]model.CutList, 0, len(cutLists))
	for _, cl := range cutLists {
		key := patternKey(cl)
		if i, ok := index[key]; ok {
			grouped[i].Quantity += cl.Quantity
			continue
		}
		index[key] = len(grouped)
		grouped = append(grouped, model.CutList{
			SupplyIndex: cl.SupplyIndex,
			PartIndices: append([]int(nil), cl.PartIndices...),
			Quantity:    cl.Quantity,
		})
	}
	return grouped
}

func patternKey(cl model.CutList) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(cl.SupplyIndex))
	b.WriteByte(':')
	for i, pi := range cl.PartIndices {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(pi))
	}
	return b.String()
}
