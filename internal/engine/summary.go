package engine

import "github.com/redactyl/anonymizer/internal/types"

func (p *Pipeline) summarize(applied []appliedMatch) types.Summary {
	s := types.Summary{
		TotalMatches:    len(applied),
		ByType:          map[types.EntityType]int{},
		ByStrategy:      map[types.StrategyName]int{},
		DetectorVersion: p.version,
	}
	for _, a := range applied {
		s.ByType[a.Type]++
		s.ByStrategy[a.strategy]++
	}
	return s
}
