package miner

import "errors"

// ErrNoEligibleFaucets indicates the initial working set is empty: there is
// nothing to mine for. Exhaustion during a run is reported through
// Summary.Exhausted instead.
var ErrNoEligibleFaucets = errors.New("miner: no eligible faucets")
