package layout

// collapseMargins returns the collapsed margin value for two adjoining vertical margins.
// Per CSS 2.1: both positive => max, both negative => most negative, mixed => sum.
func collapseMargins(margin1, margin2 float64) float64 {
	if margin1 >= 0 && margin2 >= 0 {
		return max(margin1, margin2)
	}
	if margin1 < 0 && margin2 < 0 {
		return min(margin1, margin2)
	}
	// Mixed: one positive, one negative
	return margin1 + margin2
}

// opensTop reports whether a first child's top margin collapses through the
// box's top edge instead of pushing its content down.
func opensTop(box *Box) bool {
	return box.Border.Top == 0 && box.Padding.Top == 0
}

// opensBottom is the bottom-edge counterpart; an explicit height closes it.
func opensBottom(box *Box) bool {
	if _, ok := box.Style.GetSize("height", 0); ok {
		return false
	}
	return box.Border.Bottom == 0 && box.Padding.Bottom == 0
}
