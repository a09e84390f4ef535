package render

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseWeeks reads a comma separated week list such as "1,3,5". Repeated
// weeks are kept once, in first-seen order. An empty list selects every week.
func ParseWeeks(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var weeks []int
	for _, part := range strings.Split(raw, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid week %q", ErrInvalidInput, part)
		}
		weeks = append(weeks, w)
	}
	return uniqueWeeks(weeks), nil
}

func uniqueWeeks(weeks []int) []int {
	seen := make(map[int]bool, len(weeks))
	out := make([]int, 0, len(weeks))
	for _, w := range weeks {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
