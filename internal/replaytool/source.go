package replaytool

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/tidwall/gjson"
)

// readInput returns the raw document named by file, reading stdin for "-".
func readInput(file string, stdin io.Reader) ([]byte, error) {
	switch file {
	case "":
		return nil, ErrMissingInput
	case "-":
		return io.ReadAll(stdin)
	default:
		return os.ReadFile(file)
	}
}

// decodeSections extracts the ordered section list from data. Exports of
// the analysis pipeline wrap the list, so path selects it with gjson
// syntax, e.g. "match.sections".
func decodeSections(data []byte, path string) ([]model.Section, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidInput
	}
	raw := data
	if path != "" {
		res := gjson.GetBytes(data, path)
		if !res.Exists() {
			return nil, fmt.Errorf("%w: %q", ErrSectionsNotFound, path)
		}
		raw = []byte(res.Raw)
	}
	var sections []model.Section
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return sections, nil
}
