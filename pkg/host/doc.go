// Package host is the low-level binding to the DAW host's function table.
//
// The host hands the plug-in a lookup function that maps entry point names to
// callable functions. Load resolves every entry point this module knows about
// exactly once. Entry points the host does not provide stay nil, and every call
// made through API for such an entry point fails with ErrMissingHostFunction
// instead of crashing.
//
// Nothing in this package validates pointers. Pointer is an opaque address
// owned by the host and may be stale at any time; see package validate.
package host
