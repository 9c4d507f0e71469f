package catalog

import (
	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpSortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })
