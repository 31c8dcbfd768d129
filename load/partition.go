package load

// TableRange is the half open range [Start, End) of table numbers a worker owns.
type TableRange struct {
	Start uint64
	End   uint64
}

// Len returns the number of tables in the range.
func (r TableRange) Len() uint64 {
	return r.End - r.Start
}

// Partition splits tables into one contiguous range per worker. Range sizes
// differ by at most one, the larger ones come first. Workers beyond the
// number of tables get empty ranges.
func Partition(tables uint64, workers uint) []TableRange {
	if workers == 0 {
		return nil
	}
	ranges := make([]TableRange, workers)
	base := tables / uint64(workers)
	extra := tables % uint64(workers)
	var start uint64
	for i := range ranges {
		n := base
		if uint64(i) < extra {
			n++
		}
		ranges[i] = TableRange{Start: start, End: start + n}
		start += n
	}
	return ranges
}
