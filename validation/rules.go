package validation

import (
	"fmt"
	"regexp"
	"strings"

	"code.cloudfoundry.org/taskgraph/util"
)

// chainSuffix matches the interior-link counter a chain builder appends to a
// task id ("#1", "#2", ...). Catalog task ids may not end this way, since it
// would collide with a generated chain link id.
var chainSuffix = regexp.MustCompile(`#\d+$`)

// reservedIDSuffixes are the suffixes the chain builder appends to a task id
// to form its start and end link ids. A catalog task id ending in one of
// these would be indistinguishable from a generated chain link.
var reservedIDSuffixes = []string{"_start", "_end"}

// IsValidTaskID tests that a catalog task id is non-empty and does not
// collide with the id shapes the chain builder generates.
func IsValidTaskID(id string) error {
	if id == "" {
		return fmt.Errorf("must not be empty")
	}
	for _, suffix := range reservedIDSuffixes {
		if strings.HasSuffix(id, suffix) {
			return fmt.Errorf("must not end in reserved suffix %s", util.WordList(util.QuoteList(reservedIDSuffixes), "or"))
		}
	}
	if chainSuffix.MatchString(id) {
		return fmt.Errorf("must not end in a reserved chain counter suffix (e.g. %q)", "#1")
	}
	return nil
}

// IsValidNodeID tests that a node id is non-empty and is not the sentinel
// value reserved for the null node.
func IsValidNodeID(id string) error {
	if id == "" {
		return fmt.Errorf("must not be empty (the empty string is reserved for the null node)")
	}
	return nil
}
