// Package replaytool replays a recorded section list and prints the score
// after every rally together with the game boundaries.
package replaytool

import "time"

// Config holds the command line settings of the replay tool.
type Config struct {
	// File is the JSON document to read, "-" for stdin.
	File string
	// Path is a gjson path to the sections array inside File. Empty means
	// the document itself is the array.
	Path string
	// DefaultWinner is the side credited for rallies without a usable
	// winner. Empty selects top.
	DefaultWinner string
	// JSON prints the report as JSON instead of a table.
	JSON bool

	// BaseURL switches to remote mode: sections are uploaded to a running
	// server and the score is derived there.
	BaseURL string
	// Match is the match id used in remote mode.
	Match   string
	Timeout time.Duration
}
