// Package hierarchy flattens a union hierarchy into (variant, parent) pairs.
package hierarchy

import (
	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
)

// Pair is a discovered variant together with the union that declares it
// directly. Parent is the receiver and return type of the variant's helper,
// which for nested variants is an intermediate union rather than the root.
type Pair struct {
	Variant decl.Type
	Parent  decl.Type
}

// Walk returns every variant reachable from root at any depth, each paired
// with its immediate parent. Pairs come out depth-first in declaration order;
// callers that need a stable order sort them.
//
// Walk does not guard against cycles: declaration graphs are trees.
func Walk(root decl.Type) ([]Pair, error) {
	var pairs []Pair
	if err := walk(root, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

func walk(parent decl.Type, pairs *[]Pair) error {
	variants, err := parent.DirectVariants()
	if err != nil {
		return errors.Wrapf(err, "variants of %s", parent.Ref().Qualified)
	}
	for _, v := range variants {
		*pairs = append(*pairs, Pair{Variant: v, Parent: parent})
		if !v.IsUnion() {
			continue
		}
		if err := walk(v, pairs); err != nil {
			return err
		}
	}
	return nil
}
