package preprocess

// ClampSizeContract enforces maxProcDim <= maxImgDim, and clamps both
// downward to the smallest slide's larger side when any slide is
// smaller than the requested budget (§4.3 "Size contract").
func ClampSizeContract(maxProcDim, maxImgDim int, slideMaxSides []int) (procDim, imgDim int, err error) {
	if maxProcDim > maxImgDim {
		return 0, 0, ErrSizeContract
	}
	smallest := maxImgDim
	for _, s := range slideMaxSides {
		if s < smallest {
			smallest = s
		}
	}
	procDim = min(maxProcDim, smallest)
	imgDim = min(maxImgDim, smallest)
	return procDim, imgDim, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
