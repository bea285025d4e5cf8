// Package hackathon provides the hackathon record type and the functions that
// derive display and ranking values from it.
//
// Records arrive from the listings API with loosely typed fields. Location,
// prize and participant values are kept raw and normalized on read, so a
// malformed upstream entry degrades to a fallback value instead of failing.
// Status is derived from the stored dates and an explicit "now", and is
// recomputed on every evaluation rather than cached.
package hackathon
