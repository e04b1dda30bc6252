package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"talentmatch/internal/domain/matching"
)

// LoadWeights reads a criterion weight override file. An empty path keeps the
// reference table. The file must cover every criterion; partial overrides
// would silently break the weight sum.
//
//	weights:
//	  semantic: 0.205
//	  compensation: 0.196
//	  ...
func LoadWeights(path string) (matching.WeightTable, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return matching.BaseWeights(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read weights file %s: %w", path, err)
	}

	raw := v.GetStringMap("weights")
	if len(raw) == 0 {
		return nil, fmt.Errorf("weights file %s: missing weights section", path)
	}

	table := make(matching.WeightTable, len(raw))
	for key := range raw {
		table[matching.Criterion(key)] = v.GetFloat64("weights." + key)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("weights file %s: %w", path, err)
	}
	return table, nil
}
