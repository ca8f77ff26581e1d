// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package specs

import "github.com/pdiddy/trip-estimator/pkg/types"

// Merge fills every unset field of dst from src and appends src's sources.
// Fields already present in dst are kept, so merging tier results in
// pipeline order lets earlier tiers win. It returns the names of the
// fields src filled.
func Merge(dst, src *types.ResolvedSpecs) []string {
	if src == nil {
		return nil
	}
	var filled []string
	from := src.Fields()
	for i, f := range dst.Fields() {
		if *f.Ptr == nil && *from[i].Ptr != nil {
			c := **from[i].Ptr
			*f.Ptr = &c
			filled = append(filled, f.Name)
		}
	}
	dst.Sources = append(dst.Sources, src.Sources...)
	return filled
}

// Override copies every set field of src onto dst, replacing what dst
// holds, and appends src's sources. It returns the names of the fields
// src replaced or filled.
func Override(dst, src *types.ResolvedSpecs) []string {
	if src == nil {
		return nil
	}
	var set []string
	from := src.Fields()
	for i, f := range dst.Fields() {
		if *from[i].Ptr != nil {
			c := **from[i].Ptr
			*f.Ptr = &c
			set = append(set, f.Name)
		}
	}
	dst.Sources = append(dst.Sources, src.Sources...)
	return set
}
