package policy

import "log/slog"

type MapperOption func(*Mapper)

type SynthesizerOption func(*Synthesizer)

// WithEnvironment sets partition, region and account substituted into ARN templates, empty values keep defaults
func WithEnvironment(partition, region, account string) MapperOption {
	return func(m *Mapper) {
		if partition != "" {
			m.partition = partition
		}
		if region != "" {
			m.region = region
		}
		if account != "" {
			m.account = account
		}
	}
}

// WithLogger sets mapper logger
func WithLogger(logger *slog.Logger) MapperOption {
	return func(m *Mapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStatementIDs enables statement ids derived from the first action
func WithStatementIDs(enabled bool) SynthesizerOption {
	return func(s *Synthesizer) {
		s.statementIDs = enabled
	}
}
