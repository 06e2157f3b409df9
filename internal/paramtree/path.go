package paramtree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPath marks a path string that does not follow root[i][j] syntax.
var ErrBadPath = errors.New("paramtree: invalid path")

// ParsePath converts "root[i][j]..." into zero-based child indices. "root"
// alone addresses the root itself (empty slice).
func ParsePath(path string) ([]int, error) {
	if path == "root" {
		return []int{}, nil
	}
	if !strings.HasPrefix(path, "root[") || !strings.HasSuffix(path, "]") {
		return nil, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	parts := strings.Split(path[len("root["):len(path)-1], "][")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: index %q", ErrBadPath, part)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// FormatPath renders indices back into root[i][j] syntax.
func FormatPath(indices []int) string {
	var b strings.Builder
	b.WriteString("root")
	for _, i := range indices {
		fmt.Fprintf(&b, "[%d]", i)
	}
	return b.String()
}
