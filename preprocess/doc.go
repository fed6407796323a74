// Package preprocess turns a slide's scaled raster into the
// single-channel 8-bit image and binary tissue mask the rest of the
// pipeline registers on (§4.3). Brightfield slides are reduced via a
// colorfulness score; fluorescence slides contribute one designated
// channel after adaptive histogram equalization. A pooled-statistics
// normalization pass and an edge-preserving denoise (rigid-only) round
// out the stage.
package preprocess
