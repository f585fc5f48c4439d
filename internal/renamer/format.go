package renamer

import (
	"fmt"
	"strings"
)

// FormatEpisodeNumbers renders an ascending episode number list for a
// filename. Each number is formatted with single (default "%02d");
// consecutive runs compress to "AA-BB" and runs are joined with sep.
//
//	[1]       -> "01"
//	[1 2 3]   -> "01-03"
//	[1 2 4]   -> "01-02-04"
func FormatEpisodeNumbers(nums []int, single, sep string) string {
	if single == "" {
		single = "%02d"
	}
	if sep == "" {
		sep = "-"
	}
	if len(nums) == 0 {
		return ""
	}

	var parts []string
	start := nums[0]
	prev := nums[0]
	flush := func() {
		if start == prev {
			parts = append(parts, fmt.Sprintf(single, start))
			return
		}
		parts = append(parts, fmt.Sprintf(single, start)+"-"+fmt.Sprintf(single, prev))
	}
	for _, n := range nums[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()

	return strings.Join(parts, sep)
}
