package search

import (
	"sort"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
)

// BuildCategoryTree nests categories below rootID. Categories whose parent is
// not part of the input are dropped together with their subtree. Nodes listed
// in activeIDs are flagged active.
func BuildCategoryTree(categories []*models.Category, rootID int, activeIDs []int) []*TreeItem {
	active := make(map[int]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}

	children := make(map[int][]*models.Category)
	for _, c := range categories {
		children[c.ParentID] = append(children[c.ParentID], c)
	}

	var build func(parentID int, seen map[int]bool) []*TreeItem
	build = func(parentID int, seen map[int]bool) []*TreeItem {
		nodes := children[parentID]
		sort.SliceStable(nodes, func(i, j int) bool {
			if nodes[i].Position != nodes[j].Position {
				return nodes[i].Position < nodes[j].Position
			}
			return nodes[i].ID < nodes[j].ID
		})

		items := make([]*TreeItem, 0, len(nodes))
		for _, c := range nodes {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			items = append(items, &TreeItem{
				ID:     c.ID,
				Label:  c.Name,
				Active: active[c.ID],
				Values: build(c.ID, seen),
			})
		}
		return items
	}

	return build(rootID, map[int]bool{})
}
