package resolver

// checkGuarded rejects types without a way out of their own recursion.
//
// A type terminates when at least one of its alternatives references only
// terminating types. This is a least fixed point over the finite set of types,
// so types that only reach themselves never terminate.
func checkGuarded(s *Schema) error {
	terminates := make([]bool, len(s.Types))
	for changed := true; changed; {
		changed = false
		for i, t := range s.Types {
			if terminates[i] {
				continue
			}
			for _, alt := range t.Pattern.Alts {
				if allRefs(alt, terminates) {
					terminates[i] = true
					changed = true
					break
				}
			}
		}
	}

	for i := range s.Types {
		if !terminates[i] {
			return CyclicDefinitionError{Cycle: findCycle(s, i, terminates)}
		}
	}
	return nil
}

func allRefs(seq *Sequence, terminates []bool) bool {
	for _, c := range seq.Components {
		if ref, ok := c.TypeRef.Get(); ok && !terminates[ref] {
			return false
		}
	}
	return true
}

// findCycle walks references between non-terminating types from start.
// Every such type references another one in each alternative, so a cycle is
// always reachable.
func findCycle(s *Schema, start int, terminates []bool) []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(s.Types))
	stack := []int{}

	var visit func(int) []string
	visit = func(i int) []string {
		state[i] = visiting
		stack = append(stack, i)
		for _, alt := range s.Types[i].Pattern.Alts {
			for _, c := range alt.Components {
				ref, ok := c.TypeRef.Get()
				if !ok || terminates[ref] {
					continue
				}
				switch state[ref] {
				case visiting:
					return cyclePath(s, stack, ref)
				case unvisited:
					if cycle := visit(ref); cycle != nil {
						return cycle
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		return nil
	}

	if cycle := visit(start); cycle != nil {
		return cycle
	}
	return []string{s.Types[start].Name}
}

func cyclePath(s *Schema, stack []int, back int) []string {
	from := 0
	for k, i := range stack {
		if i == back {
			from = k
			break
		}
	}
	path := make([]string, 0, len(stack)-from+1)
	for _, i := range stack[from:] {
		path = append(path, s.Types[i].Name)
	}
	return append(path, s.Types[back].Name)
}
