package haplotype

import (
	"sort"
	"strings"
)

// Group is the set of samples sharing one Code. Samples keeps the order in
// which members were supplied to Partition. Uncalled is set when every
// symbol of the code is missing.
type Group struct {
	Code     Code
	Samples  []string
	Uncalled bool
}

func (g Group) Count() int {
	return len(g.Samples)
}

// Partition groups samples by identical code; codes[i] belongs to
// samples[i]. Groups are ordered by descending size, then by ascending code
// with the missing symbol sorting after every called symbol.
func Partition(samples []string, codes []Code, missing string) []Group {
	if missing == "" {
		missing = DefaultMissing
	}

	var ans []Group
	index := make(map[string]int)
	var key string
	var idx int
	var found bool
	for i := range samples {
		key = strings.Join(codes[i], "\x00")
		if idx, found = index[key]; !found {
			idx = len(ans)
			index[key] = idx
			ans = append(ans, Group{Code: codes[i], Uncalled: codes[i].AllMissing(missing)})
		}
		ans[idx].Samples = append(ans[idx].Samples, samples[i])
	}

	sort.SliceStable(ans, func(i, j int) bool {
		if ans[i].Count() != ans[j].Count() {
			return ans[i].Count() > ans[j].Count()
		}
		return compareCodes(ans[i].Code, ans[j].Code, missing) < 0
	})
	return ans
}

// Regroup partitions the members of existing groups again using each
// group's code. Applied to the output of Partition it returns the same groups.
func Regroup(groups []Group, missing string) []Group {
	var samples []string
	var codes []Code
	for _, g := range groups {
		for _, s := range g.Samples {
			samples = append(samples, s)
			codes = append(codes, g.Code)
		}
	}
	return Partition(samples, codes, missing)
}

// compareCodes orders codes symbol by symbol. Called symbols compare as
// strings; the missing symbol sorts after any called symbol.
func compareCodes(a, b Code, missing string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		switch {
		case a[i] == missing:
			return 1
		case b[i] == missing:
			return -1
		default:
			return strings.Compare(a[i], b[i])
		}
	}
	return len(a) - len(b)
}
