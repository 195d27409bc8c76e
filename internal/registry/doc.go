// Package registry owns the authoritative mapping from public tool name to
// callable, metadata, and origin unit.
//
// The namespace is published as an immutable snapshot behind an atomic
// pointer. A rebuild, full or single-unit, constructs its replacement
// snapshot off to the side and installs it with one pointer swap, so a
// concurrent Resolve always observes the last completed rebuild in its
// entirety and never a half-applied one. At most one rebuild runs at a time;
// a rebuild requested while another is in flight fails fast with
// ErrRebuildBusy rather than queueing.
//
// Units that fail validation or load degrade only themselves: they land in
// the snapshot's rejected set with their cause and stay inspectable until
// they next load cleanly or leave the scan set.
package registry
