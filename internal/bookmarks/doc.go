// Package bookmarks provides the persisted set of bookmarked hackathon IDs.
//
// A Store is loaded once from a Backend and writes the complete set back
// after every toggle. Bookmarks are independent of the record set: IDs of
// hackathons that no longer appear in the listing are kept.
//
// Two backends are available:
//   - FileBackend stores bookmarks.json in a local data directory
//   - GistBackend stores bookmarks.json in a private GitHub Gist, so the
//     same set can be shared between machines
//
// Missing or corrupt data loads as an empty set.
package bookmarks
