package via

import "golang.org/x/time/rate"

// RateLimitConfig sizes a token bucket guarding action calls. Zero fields take
// the page defaults; a Rate of -1 turns the bucket off.
type RateLimitConfig struct {
	Rate  float64
	Burst int
}

// pageActionLimit is the bucket every page context draws from unless
// Options.ActionRateLimit overrides it.
var pageActionLimit = RateLimitConfig{Rate: 10, Burst: 20}

// bucket builds the limiter for cfg, filling zero fields from def. It returns
// nil when limiting is off.
func (cfg RateLimitConfig) bucket(def RateLimitConfig) *rate.Limiter {
	if cfg.Rate == -1 {
		return nil
	}
	if cfg.Rate == 0 {
		cfg.Rate = def.Rate
	}
	if cfg.Burst == 0 {
		cfg.Burst = def.Burst
	}
	return rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)
}

// ActionOption configures an action when it is registered with Context.Action.
type ActionOption func(*actionEntry)

type actionEntry struct {
	fn func()
	// own bucket, drawn from after the page bucket; nil when the action has none
	limiter *rate.Limiter
}

// WithRateLimit gives an action a bucket of its own on top of the page bucket,
// e.g. to keep a menu from being clicked through faster than the content can
// follow.
func WithRateLimit(cfg RateLimitConfig) ActionOption {
	return func(e *actionEntry) {
		e.limiter = cfg.bucket(pageActionLimit)
	}
}

// throttled takes a token from l and reports whether none was left.
func throttled(l *rate.Limiter) bool {
	return l != nil && !l.Allow()
}
