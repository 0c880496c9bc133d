/*
Copyright © 2026 the streamnet authors.
This file is part of streamnet.

streamnet is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

streamnet is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with streamnet.  If not, see <http://www.gnu.org/licenses/>.
*/

package streamnet

// Terminus follows child pointers from i until reaching a terminal
// segment, returning its index.
func (s *Segments) Terminus(i int) int {
	for !s.IsTerminal(i) {
		i = s.child[i]
	}
	return i
}

// Termini returns the unique set of terminal segment indices, in
// network order.
func (s *Segments) Termini() []int {
	var out []int
	for i := 0; i < s.Len(); i++ {
		if s.IsTerminal(i) {
			out = append(out, i)
		}
	}
	return out
}

// Ancestors returns every segment that drains, directly or indirectly,
// into segment i (its upstream subtree), excluding i itself.
func (s *Segments) Ancestors(i int) []int {
	var out []int
	stack := s.Parents(i)
	seen := make(map[int]bool)
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[j] {
			continue
		}
		seen[j] = true
		out = append(out, j)
		stack = append(stack, s.Parents(j)...)
	}
	return out
}

// Descendents returns every segment downstream of i, excluding i itself.
func (s *Segments) Descendents(i int) []int {
	var out []int
	j := s.Child(i)
	for j != -1 {
		out = append(out, j)
		j = s.Child(j)
	}
	return out
}

// Family returns i, its ancestors, and its descendents.
func (s *Segments) Family(i int) []int {
	out := []int{i}
	out = append(out, s.Ancestors(i)...)
	out = append(out, s.Descendents(i)...)
	return out
}

// localRoot returns the representative index of i's local network: the
// smallest index in its undirected parent/child connected component.
func (s *Segments) localRoot(i int) int {
	networks := s.localNetworks()
	for _, net := range networks {
		for _, j := range net {
			if j == i {
				root := net[0]
				for _, k := range net {
					if k < root {
						root = k
					}
				}
				return root
			}
		}
	}
	return i
}

// IsNested reports whether segment i's terminus differs from the
// terminus of its local network's root. A local network has exactly one
// terminus, so this is false for every segment; networks whose basins
// intersect only through the flow grid are separate local networks and
// are not reported here.
func (s *Segments) IsNested(i int) bool {
	root := s.localRoot(i)
	return s.Terminus(i) != s.Terminus(root)
}

// localNetworks partitions segment indices into connected components of
// the undirected graph induced by parent/child links.
func (s *Segments) localNetworks() [][]int {
	n := s.Len()
	visited := make([]bool, n)
	var networks [][]int
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		var comp []int
		stack := []int{i}
		visited[i] = true
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, j)
			neighbors := append([]int{}, s.Parents(j)...)
			if c := s.Child(j); c != -1 {
				neighbors = append(neighbors, c)
			}
			for _, k := range neighbors {
				if !visited[k] {
					visited[k] = true
					stack = append(stack, k)
				}
			}
		}
		networks = append(networks, comp)
	}
	return networks
}

// LocalNetworks returns the connected components of the undirected
// segment graph induced by parent/child links.
func (s *Segments) LocalNetworks() [][]int { return s.localNetworks() }

// NLocal returns the number of local networks.
func (s *Segments) NLocal() int { return len(s.localNetworks()) }
