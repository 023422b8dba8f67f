package main

import "sort"

// diff reconciles two unsorted listings into an ordered action stream.
// Both listings are fully materialized and sorted by path (locale-unaware
// byte comparison is used for the total order; see DESIGN.md for why
// that's enough here), then walked with two cursors.
func diff(source, target []Entry) []Action {
	src := append([]Entry(nil), source...)
	dst := append([]Entry(nil), target...)

	sort.Slice(src, func(i, j int) bool { return src[i].Path < src[j].Path })
	sort.Slice(dst, func(i, j int) bool { return dst[i].Path < dst[j].Path })

	actions := make([]Action, 0, len(src)+len(dst))

	i, j := 0, 0
	for i < len(src) || j < len(dst) {
		switch {
		case j >= len(dst) || (i < len(src) && src[i].Path < dst[j].Path):
			actions = append(actions, Action{Kind: ActionAdd, Entry: src[i]})
			i++
		case i >= len(src) || src[i].Path > dst[j].Path:
			actions = append(actions, Action{Kind: ActionDelete, Entry: dst[j]})
			j++
		default:
			if isUpdate(src[i], dst[j]) {
				actions = append(actions, Action{Kind: ActionUpdate, Entry: src[i]})
			}
			i++
			j++
		}
	}

	return actions
}

// isUpdate applies an asymmetric mtime test: a source newer than target
// by at least 1ms is an update; a source older than target is not, even
// if the content actually differs. Size change in either direction is
// always an update. This avoids rewrites caused by a target store
// reporting slightly later mtimes than the source filesystem, at the cost
// of never detecting a same-size content change when the source looks
// older than the target. See DESIGN.md for the reasoning behind keeping
// this one-directional.
func isUpdate(source, target Entry) bool {
	if source.Size != target.Size {
		return true
	}
	return source.ModTime-target.ModTime >= 1
}
