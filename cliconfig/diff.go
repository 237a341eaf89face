package cliconfig

// Diffs identifies the difference between two normalized CLI line
// lists. The comparison is order-insensitive and repetition-aware.
//
// Lines present in after but not in base are returned in added, with
// no prefix. Lines present in base but not in after are returned in
// removed, prefixed with "-". A line occurring a different number of
// times in each list is reported with its preceding-line context so a
// reviewer can see where the repetition changed: each extra or missing
// occurrence whose preceding line has no counterpart in the other list
// is emitted as "preceding\nline" (the line "-"-prefixed on removal).
func Diffs(base, after []string) (added, removed []string) {
	baseCount := lineCounts(base)
	afterCount := lineCounts(after)

	for _, line := range after {
		if baseCount[line] == 0 {
			added = append(added, line)
		}
	}
	for _, line := range base {
		if afterCount[line] == 0 {
			removed = append(removed, line)
		}
	}

	// repetition changes: lines in both lists with differing counts
	seen := map[string]struct{}{}
	for _, line := range base {
		cb, ca := baseCount[line], afterCount[line]
		if cb == 0 || ca == 0 || cb == ca {
			continue
		}
		if _, done := seen[line]; done {
			continue
		}
		seen[line] = struct{}{}

		oldIdx := indexesOf(base, line)
		newIdx := indexesOf(after, line)
		if cb < ca {
			for _, ni := range newIdx {
				ctx := preceding(after, ni)
				if hasPrecedingMatch(base, oldIdx, ctx) {
					continue
				}
				added = append(added, ctx+"\n"+line)
			}
		} else {
			for _, oi := range oldIdx {
				ctx := preceding(base, oi)
				if hasPrecedingMatch(after, newIdx, ctx) {
					continue
				}
				removed = append(removed, ctx+"\n-"+line)
			}
		}
	}

	return added, removed
}

func lineCounts(lines []string) map[string]int {
	counts := make(map[string]int, len(lines))
	for _, line := range lines {
		counts[line]++
	}
	return counts
}

func indexesOf(lines []string, line string) (idx []int) {
	for i, l := range lines {
		if l == line {
			idx = append(idx, i)
		}
	}
	return idx
}

// preceding returns the line before index i, or "" at the head of the
// list.
func preceding(lines []string, i int) string {
	if i == 0 {
		return ""
	}
	return lines[i-1]
}

func hasPrecedingMatch(lines []string, idx []int, ctx string) bool {
	for _, i := range idx {
		if preceding(lines, i) == ctx {
			return true
		}
	}
	return false
}
