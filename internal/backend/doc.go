package backend

// Package backend provides the concrete single-symbol decoder behind the
// locator's decode.Reader contract.
//
// The default build has no concrete decoder to avoid pulling in external
// dependencies implicitly. Enable the gozxing-backed reader with the build
// tag `backend_gozxing`.
//
// Example:
//   go build -tags=backend_gozxing ./...
