package replaytool

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const defaultTimeout = 10 * time.Second

// NewApp declares the command line of the replay tool and binds it to cfg.
func NewApp(cfg *Config) *kingpin.Application {
	app := kingpin.New("replay", "Replay recorded rally sections and print the score after every point.")
	app.Arg("file", "JSON section list, or - for stdin").Required().StringVar(&cfg.File)
	app.Flag("path", "gjson path to the sections array inside the document").Short('p').StringVar(&cfg.Path)
	app.Flag("default-winner", "Side credited for rallies without a usable winner").Short('w').Default("top").EnumVar(&cfg.DefaultWinner, "top", "bottom")
	app.Flag("json", "Print the report as JSON").Short('j').BoolVar(&cfg.JSON)
	app.Flag("url", "Derive the score on a running server at this base URL").Short('u').StringVar(&cfg.BaseURL)
	app.Flag("match", "Match id used with --url").Short('m').Default("replay").StringVar(&cfg.Match)
	app.Flag("timeout", "HTTP request timeout").Default(defaultTimeout.String()).DurationVar(&cfg.Timeout)
	return app
}
