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

// RemoveOptions configures Remove/Keep.
type RemoveOptions struct {
	IDs        []int
	Indices    []bool
	Upstream   bool
	Downstream bool
	Continuous bool
}

// Remove deletes the selected segments from s, per spec §4.I. Upstream,
// Downstream and Continuous are used exactly as given; no defaults are
// applied, so a zero-valued field (false) turns that behaviour off.
func (s *Segments) Remove(opts RemoveOptions) error {
	n := s.Len()
	selected := make([]bool, n)
	for _, id := range opts.IDs {
		for i, sid := range s.ids {
			if sid == id {
				selected[i] = true
			}
		}
	}
	for i, v := range opts.Indices {
		if i < n && v {
			selected[i] = true
		}
	}

	if opts.Continuous {
		selected = s.contract(selected, opts.Upstream, opts.Downstream)
	}

	terminiBefore := make(map[int]bool)
	for _, t := range s.Termini() {
		terminiBefore[s.ids[t]] = true
	}

	keepIdx := make([]int, 0, n)
	remap := make([]int, n)
	for i := range remap {
		remap[i] = -1
	}
	for i := 0; i < n; i++ {
		if !selected[i] {
			remap[i] = len(keepIdx)
			keepIdx = append(keepIdx, i)
		}
	}

	remapIdx := func(old int) int {
		if old < 0 {
			return -1
		}
		return remap[old]
	}

	newS := &Segments{flow: s.flow}
	for _, i := range keepIdx {
		newS.ids = append(newS.ids, s.ids[i])
		newS.indices = append(newS.indices, s.indices[i])
		newS.polylines = append(newS.polylines, s.polylines[i])
		newS.npixels = append(newS.npixels, s.npixels[i])
		newS.child = append(newS.child, remapIdx(s.child[i]))
		var parents []int
		for _, p := range s.parents[i] {
			if np := remapIdx(p); np >= 0 {
				parents = append(parents, np)
			}
		}
		newS.parents = append(newS.parents, parents)
	}
	maxK := 0
	for _, p := range newS.parents {
		if len(p) > maxK {
			maxK = len(p)
		}
	}
	for i, p := range newS.parents {
		row := make([]int, maxK)
		for k := range row {
			row[k] = -1
		}
		copy(row, p)
		newS.parents[i] = row
	}

	*s = *newS

	terminiAfter := make(map[int]bool)
	for _, t := range s.Termini() {
		terminiAfter[s.ids[t]] = true
	}
	changed := len(terminiBefore) != len(terminiAfter)
	if !changed {
		for t := range terminiBefore {
			if !terminiAfter[t] {
				changed = true
				break
			}
		}
	}
	if changed {
		s.invalidateBasins()
	}
	return nil
}

// Keep retains only the selected segments, removing everything else.
func (s *Segments) Keep(opts RemoveOptions) error {
	n := s.Len()
	selected := make([]bool, n)
	for _, id := range opts.IDs {
		for i, sid := range s.ids {
			if sid == id {
				selected[i] = true
			}
		}
	}
	for i, v := range opts.Indices {
		if i < n && v {
			selected[i] = true
		}
	}
	inverse := make([]bool, n)
	var inverseIDs []int
	for i, sel := range selected {
		if !sel {
			inverse[i] = true
			inverseIDs = append(inverseIDs, s.ids[i])
		}
	}
	return s.Remove(RemoveOptions{
		IDs:        inverseIDs,
		Upstream:   opts.Upstream,
		Downstream: opts.Downstream,
		Continuous: opts.Continuous,
	})
}

// contract implements _removable: a requested segment is only blocked
// from removal when it would sever a retained upstream chain from a
// retained downstream segment, per spec §4.I.2. A segment with a
// retained parent but no retained child (or vice versa) just shortens
// the network from that end and is never blocked on that account alone
// — blocking requires both a retained parent (when upstream is
// enforced) and a retained child (when downstream is enforced).
func (s *Segments) contract(requested []bool, upstream, downstream bool) []bool {
	n := s.Len()
	removable := append([]bool(nil), requested...)
	if !upstream && !downstream {
		return removable
	}
	for {
		changed := false
		for i := 0; i < n; i++ {
			if !removable[i] {
				continue
			}
			hasRetainedParent := false
			if upstream {
				for _, p := range s.Parents(i) {
					if !removable[p] {
						hasRetainedParent = true
						break
					}
				}
			}
			hasRetainedChild := false
			if downstream {
				if c := s.Child(i); c != -1 && !removable[c] {
					hasRetainedChild = true
				}
			}
			blocked := (!upstream || hasRetainedParent) && (!downstream || hasRetainedChild)
			if blocked {
				removable[i] = false
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return removable
}

// Prune removes every leaf segment (one with no parents) whose npixels
// is below threshold. If threshold is nil, one leaf layer is removed
// per call regardless of npixels.
func (s *Segments) Prune(threshold *float64) error {
	n := s.Len()
	var ids []int
	for i := 0; i < n; i++ {
		if len(s.Parents(i)) != 0 {
			continue
		}
		if threshold == nil || float64(s.npixels[i]) < *threshold {
			ids = append(ids, s.ids[i])
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return s.Remove(RemoveOptions{IDs: ids, Upstream: true, Downstream: true, Continuous: true})
}
