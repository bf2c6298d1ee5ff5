package request

import (
	"fmt"
	"regexp"
	"strconv"
)

var placeholderPattern = regexp.MustCompile(`^\{(\d+):result:([^}]+)\}$`)

// PlaceholderRef points at a field of an earlier sub-response in the same
// multirequest. The backend substitutes it before running the sub-request
// that carries it; it is never resolved locally.
type PlaceholderRef struct {
	RequestIndex int
	FieldPath    string
}

// String renders the reference as {index:result:path}.
func (p PlaceholderRef) String() string {
	return fmt.Sprintf("{%d:result:%s}", p.RequestIndex, p.FieldPath)
}

// ParsePlaceholder parses a rendered reference.
func ParsePlaceholder(s string) (PlaceholderRef, bool) {
	m := placeholderPattern.FindStringSubmatch(s)
	if m == nil {
		return PlaceholderRef{}, false
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil || idx < 1 {
		return PlaceholderRef{}, false
	}
	return PlaceholderRef{RequestIndex: idx, FieldPath: m[2]}, true
}
