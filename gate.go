package aspectlog

import "github.com/Station-Manager/errors"

// ShouldLog reports whether a line at tier may be emitted under cfg. It is
// false whenever cfg.Enabled is false, for tiers outside Debug..Error, and
// when cfg.Level does not name a tier.
func ShouldLog(cfg Config, tier Level) bool {
	if !cfg.Enabled || !tier.Valid() {
		return false
	}
	threshold, err := cfg.MinLevel()
	if err != nil {
		return false
	}
	return tier >= threshold
}

// Gate is ShouldLog with the minimum level resolved once. The zero value
// refuses everything.
type Gate struct {
	enabled bool
	min     Level
}

// NewGate resolves cfg into a Gate, rejecting an unknown level.
func NewGate(cfg Config) (Gate, error) {
	const op errors.Op = "aspectlog.NewGate"
	threshold, err := cfg.MinLevel()
	if err != nil {
		return Gate{}, &ConfigValidationError{
			Field: fieldLevel,
			Value: cfg.Level,
			Err:   errors.New(op).Err(err).Msg(errMsgConfigInvalid),
		}
	}
	return Gate{enabled: cfg.Enabled, min: threshold}, nil
}

// Allows reports whether a line at tier passes the gate.
func (g Gate) Allows(tier Level) bool {
	return g.enabled && tier.Valid() && tier >= g.min
}

// MinLevel returns the configured threshold.
func (g Gate) MinLevel() Level {
	return g.min
}

// Enabled reports the master switch.
func (g Gate) Enabled() bool {
	return g.enabled
}
