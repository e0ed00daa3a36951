package service

import (
	"sort"

	"github.com/noah-isme/registrar-api/internal/dto"
	"github.com/noah-isme/registrar-api/internal/models"
)

// gradingTree indexes the periods of one academic level: every period lives in
// byID and parent/child links are derived from the parent_id index.
type gradingTree struct {
	byID     map[string]models.GradingPeriod
	children map[string][]string
	roots    []string
}

func newGradingTree(periods []models.GradingPeriod) *gradingTree {
	t := &gradingTree{
		byID:     make(map[string]models.GradingPeriod, len(periods)),
		children: make(map[string][]string),
	}
	for _, p := range periods {
		t.byID[p.ID] = p
	}
	for _, p := range periods {
		parent := p.ParentValue()
		if _, ok := t.byID[parent]; parent == "" || !ok {
			// orphans surface as roots rather than disappearing from the tree
			t.roots = append(t.roots, p.ID)
			continue
		}
		t.children[parent] = append(t.children[parent], p.ID)
	}
	t.sortIDs(t.roots)
	for _, ids := range t.children {
		t.sortIDs(ids)
	}
	return t
}

func (t *gradingTree) sortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.byID[ids[i]], t.byID[ids[j]]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
}

// Roots returns the root periods in display order.
func (t *gradingTree) Roots() []models.GradingPeriod {
	return t.collect(t.roots)
}

// Children returns the direct children of id in display order.
func (t *gradingTree) Children(id string) []models.GradingPeriod {
	return t.collect(t.children[id])
}

func (t *gradingTree) collect(ids []string) []models.GradingPeriod {
	out := make([]models.GradingPeriod, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.byID[id])
	}
	return out
}

// Nodes renders the tree as nested DTO nodes.
func (t *gradingTree) Nodes() []dto.GradingNode {
	return t.nodes(t.roots)
}

func (t *gradingTree) nodes(ids []string) []dto.GradingNode {
	out := make([]dto.GradingNode, 0, len(ids))
	for _, id := range ids {
		node := dto.GradingNode{GradingPeriod: t.byID[id]}
		if kids := t.children[id]; len(kids) > 0 {
			node.Children = t.nodes(kids)
		}
		out = append(out, node)
	}
	return out
}
