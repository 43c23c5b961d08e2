package replaytool

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/rally"
	"github.com/okian/rallyscore/internal/domain/scoring"
	"github.com/okian/rallyscore/pkg/logger"
)

// Run loads the configured document, derives the report locally or on
// the configured server, and prints it to out.
func Run(ctx context.Context, cfg *Config, stdin io.Reader, out io.Writer) error {
	data, err := readInput(cfg.File, stdin)
	if err != nil {
		return fmt.Errorf("read %q: %w", cfg.File, err)
	}
	sections, err := decodeSections(data, cfg.Path)
	if err != nil {
		return err
	}

	winner := model.SideTop
	if cfg.DefaultWinner != "" {
		winner = model.ParseSide(cfg.DefaultWinner)
		if !winner.Valid() {
			return fmt.Errorf("%w: %q", rally.ErrInvalidDefaultWinner, cfg.DefaultWinner)
		}
	}

	log := logger.Named("replay")
	log.Debug(ctx, "sections loaded",
		logger.Int("sections", len(sections)),
		logger.String("defaultWinner", winner.String()),
		logger.Bool("remote", cfg.BaseURL != ""),
	)

	var report *Report
	if cfg.BaseURL != "" {
		report, err = remoteReport(ctx, cfg, sections, winner)
	} else {
		report, err = localReport(sections, winner)
	}
	if err != nil {
		return err
	}
	if report.Defaulted > 0 {
		log.Warn(ctx, "rallies without a usable winner", logger.Int("count", report.Defaulted))
	}

	if cfg.JSON {
		return report.WriteJSON(out)
	}
	return report.WriteTable(out)
}

func localReport(sections []model.Section, winner model.Side) (*Report, error) {
	policy := rally.Config{DefaultWinner: winner}
	points, err := scoring.Timeline(sections, policy)
	if err != nil {
		return nil, err
	}
	_, res, err := scoring.Analyse(sections, policy)
	if err != nil {
		return nil, err
	}
	return newReport(points, res.Games), nil
}
