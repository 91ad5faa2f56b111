// Package docloom compiles a documentation website into a single
// navigable document. It crawls a site from a starting URL, extracts
// the semantic body of each page as normalized markdown, records the
// link structure as a document tree, and weaves the saved pages into
// one output file with a generated table of contents.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// http/, sqlite/), with orchestration in crawl/ and compile/.
package docloom
