package listedit

// Record is a named row that can be edited inline.
type Record interface {
	RecordID() string
	RecordName() string
}

// ApplyCreate returns list with rec appended.
func ApplyCreate[T Record](list []T, rec T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, rec)
}

// ApplyUpdate returns list with the row sharing rec's id replaced.
func ApplyUpdate[T Record](list []T, rec T) []T {
	out := make([]T, len(list))
	for i, item := range list {
		if item.RecordID() == rec.RecordID() {
			out[i] = rec
			continue
		}
		out[i] = item
	}
	return out
}

// ApplyDelete returns list without the row with the given id.
func ApplyDelete[T Record](list []T, id string) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if item.RecordID() != id {
			out = append(out, item)
		}
	}
	return out
}
