// Package export writes a composition layer stack for the render collaborator
// as JSON, SRT subtitles, or a standalone SQLite file.
package export
