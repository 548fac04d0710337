// Package orientation classifies a CT slice into an anatomical plane from its
// ImageOrientationPatient direction cosines.
//
// The six cosines are split into the row direction X and the column direction
// Y of the image plane, expressed in patient coordinates:
//
//	[Xx, Xy, Xz, Yx, Yy, Yz]
//
// Patient axes follow the DICOM convention: +x points to the patient's left,
// +y to posterior, +z to head.
//
// # Strategies
//
// Two strategies implement [Classifier]:
//
//   - [StrategyCrossProduct] computes the plane normal Z = X × Y and picks the
//     axis with the largest |Z| component. It always returns a definite plane,
//     including for oblique acquisitions.
//   - [StrategyRoundedPattern] rounds every cosine to the nearest integer and
//     looks the result up in a table of canonical axis-aligned orientations. It
//     returns [plane.Unknown] when nothing matches.
//
// On every canonical axis-aligned orientation in the lookup table the two
// strategies return the same plane. They diverge only on oblique or rotated
// acquisitions, where the lookup yields Unknown and the cross product still
// produces a heuristic answer. [CrossCheck] runs two classifiers side by side
// and reports any divergence as a [Disagreement] rather than failing.
//
// # Tie Breaking
//
// The dominant-axis scan keeps the earliest index on exact ties (it only moves
// on a strictly greater magnitude). Exact ties do not occur with real scanner
// data but are easy to produce with synthetic vectors.
package orientation
