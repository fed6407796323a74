// Package warp implements the transform algebra shared by every stage of
// the registration pipeline: composing rigid and dense transforms,
// rescaling them between pyramid levels, and using them to move points,
// images, and polygons between a slide's native coordinates and the
// canonical registered frame.
//
// The model is the one described for the engine as a whole: a slide's
// full transform to canonical coordinates is
//
//	xy_canonical = NR( R( S_in(xy_native) ) )
//
// where S_in is a similarity scale from the slide's native shape to the
// shape its rigid matrix was fit at, R applies the rigid matrix, and NR
// adds the forward displacement field sampled at the rigidly warped
// location. Package warp never reads pixels itself; callers supply
// images, masks, and point sets and get back warped copies.
package warp
