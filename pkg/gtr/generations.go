package gtr

// AncestorGenerations returns the maximum number of ancestor generations
// reachable from p. A person with no child-family has depth 0; a family
// with no resolvable parents also contributes depth 0.
func AncestorGenerations(p *Person) int {
	return ancestorDepth(p, make(map[*Person]bool))
}

func ancestorDepth(p *Person, path map[*Person]bool) int {
	// The single-child-family invariant makes the graph acyclic, but a
	// hand-edited file could still close a loop; the path set stops the
	// recursion in that case.
	if p.ChildFamily == nil || path[p] {
		return 0
	}
	path[p] = true
	deepest := -1
	for _, parent := range p.ChildFamily.Parents {
		if d := ancestorDepth(parent, path); d > deepest {
			deepest = d
		}
	}
	delete(path, p)
	return deepest + 1
}

// DescendantGenerations returns the maximum number of descendant
// generations reachable from p across all of their parent-families.
func DescendantGenerations(p *Person) int {
	return descendantDepth(p, make(map[*Person]bool))
}

func descendantDepth(p *Person, path map[*Person]bool) int {
	if len(p.ParentFamilies) == 0 || path[p] {
		return 0
	}
	path[p] = true
	deepest := -1
	for _, fam := range p.ParentFamilies {
		for _, child := range fam.Children {
			if d := descendantDepth(child, path); d > deepest {
				deepest = d
			}
		}
	}
	delete(path, p)
	return deepest + 1
}

// BalanceLimits redistributes unused generation budget between the two
// traversal directions. When exactly one direction's actual depth exceeds
// its limit while the other stays under, the under-limit direction's slack
// is transferred to the exceeding one. When both or neither direction
// exceeds its limit, or the under-limit direction is unlimited, the limits
// are returned unchanged.
func BalanceLimits(p *Person, ancestorLimit, descendantLimit int) (int, int) {
	ancestors := AncestorGenerations(p)
	descendants := DescendantGenerations(p)

	ancestorsOver := ancestorLimit != Unlimited && ancestors > ancestorLimit
	descendantsOver := descendantLimit != Unlimited && descendants > descendantLimit

	switch {
	case ancestorsOver && !descendantsOver:
		if slack := descendantLimit - descendants; slack > 0 {
			ancestorLimit += slack
		}
	case descendantsOver && !ancestorsOver:
		if slack := ancestorLimit - ancestors; slack > 0 {
			descendantLimit += slack
		}
	}
	return ancestorLimit, descendantLimit
}
