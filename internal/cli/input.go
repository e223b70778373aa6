package cli

import (
	"encoding/json"
	"os"

	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/optical"
)

// loadModel reads a model JSON file written by `optiqa collect --output`.
func loadModel(path string) (*optical.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Model file not found: "+path,
				"Run 'optiqa collect --output "+path+"' first")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot read model file: "+path,
			"Check file permissions")
	}

	model := optical.NewModel()
	if err := json.Unmarshal(data, model); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			"Model file is not valid: "+path,
			"Regenerate it with 'optiqa collect --output "+path+"'")
	}
	return model, nil
}
