package vision

import "github.com/sony/gobreaker/v2"

func (t *BreakerTagger) State() gobreaker.State {
	return t.cb.State()
}
