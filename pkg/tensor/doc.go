// Package tensor converts captured bitmaps into the float arrays a node host
// consumes.
//
// A host image is a [1, H, W, 3] float32 array of RGB values in 0..1 and a
// mask is a [1, H, W] array of alpha values in 0..1. [Package] and
// [PackageImage] produce both from a PNG, honoring any EXIF orientation.
//
// Tensors serialize to JSON as {"shape", "dtype", "data"} with data holding
// base64 little-endian float32 values, and to NumPy .npy files with
// [Tensor.WriteNPY].
package tensor
