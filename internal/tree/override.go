package tree

// virtualize marks every ancestor member that a descendant redeclares as
// overridable. Nodes are visited parents first, so once an entry is virtual
// everything above it has already been handled and the walk can stop there.
// Ancestors without an entry are passed over. It returns the number of
// members flipped.
func (f *Forest) virtualize() int {
	flipped := 0

	for _, node := range f.Preorder() {
		for symbol := range node.properties {
			flipped += f.walk(node, func(ancestor *Node) (*bool, bool) {
				p, ok := ancestor.properties[symbol]
				if !ok {
					return nil, false
				}
				return &p.Final, true
			})
		}

		for symbol := range node.methods {
			flipped += f.walk(node, func(ancestor *Node) (*bool, bool) {
				m, ok := ancestor.methods[symbol]
				if !ok {
					return nil, false
				}
				return &m.Final, true
			})
		}
	}

	return flipped
}

// walk climbs from the parent of n, flipping the final flag that entry
// returns for each ancestor.
func (f *Forest) walk(n *Node, entry func(*Node) (*bool, bool)) int {
	flipped := 0
	for ancestor, ok := f.Parent(n); ok; ancestor, ok = f.Parent(ancestor) {
		final, declared := entry(ancestor)
		if !declared {
			continue
		}
		if !*final {
			break
		}
		*final = false
		flipped++
	}
	return flipped
}
