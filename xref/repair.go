package xref

import (
	"context"
	"errors"
	"regexp"
	"strconv"
)

var objHeader = regexp.MustCompile(`(?m)^(\d+)\s+(\d+)\s+obj\b`)

// repair rebuilds the table from "<num> <gen> obj" lines. A later
// definition of the same number wins, as in an incremental update.
func repair(ctx context.Context, data []byte) (Table, error) {
	t := &table{entries: make(map[int]entry), kind: "repaired"}
	for i, m := range objHeader.FindAllSubmatchIndex(data, -1) {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		num, err := strconv.Atoi(string(data[m[2]:m[3]]))
		if err != nil {
			continue
		}
		gen, err := strconv.Atoi(string(data[m[4]:m[5]]))
		if err != nil {
			continue
		}
		t.entries[num] = entry{offset: int64(m[0]), gen: gen}
		if num+1 > t.size {
			t.size = num + 1
		}
	}
	if len(t.entries) == 0 {
		return nil, errors.New("repair failed: no objects found")
	}
	t.count = t.size
	return t, nil
}
