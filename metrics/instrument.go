package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Sovereign-Labs/amethyst/abort"
	"github.com/Sovereign-Labs/amethyst/access"
	"github.com/Sovereign-Labs/amethyst/types"
	"github.com/Sovereign-Labs/amethyst/vsal"
)

// InstrumentedLog wraps a vsal.RwLog, reporting reads, writes, and
// causality violations against a Registry. HostDB takes a vsal.RwLog, so
// wrapping one in an InstrumentedLog is enough to get per-transaction
// metrics with no change to hostdb or vsal themselves.
type InstrumentedLog struct {
	inner vsal.RwLog
	reg   *Registry
}

// Instrument wraps log so its activity is reported against reg.
func Instrument(log vsal.RwLog, reg *Registry) *InstrumentedLog {
	return &InstrumentedLog{inner: log, reg: reg}
}

func (l *InstrumentedLog) AccountCurrent(addr types.Address) (access.Option[types.AccountInfo], bool) {
	return l.inner.AccountCurrent(addr)
}

func (l *InstrumentedLog) StorageCurrent(addr types.Address, slot types.Hash) (access.Option[types.Word], bool) {
	return l.inner.StorageCurrent(addr, slot)
}

func (l *InstrumentedLog) AddAccountRead(addr types.Address, value access.Option[types.AccountInfo]) error {
	l.reg.AccountReads.Inc()
	err := l.inner.AddAccountRead(addr, value)
	l.countAbort(err)
	return err
}

func (l *InstrumentedLog) AddAccountWrite(addr types.Address, value access.Option[types.AccountInfo]) {
	l.reg.AccountWrites.Inc()
	l.inner.AddAccountWrite(addr, value)
}

func (l *InstrumentedLog) AddStorageRead(addr types.Address, slot types.Hash, value access.Option[types.Word]) error {
	l.reg.StorageReads.Inc()
	err := l.inner.AddStorageRead(addr, slot, value)
	l.countAbort(err)
	return err
}

func (l *InstrumentedLog) AddStorageWrite(addr types.Address, slot types.Hash, value access.Option[types.Word]) {
	l.reg.StorageWrites.Inc()
	l.inner.AddStorageWrite(addr, slot, value)
}

func (l *InstrumentedLog) AddBlockHashRead(number uint64, value access.Option[types.Hash]) error {
	err := l.inner.AddBlockHashRead(number, value)
	l.countAbort(err)
	return err
}

func (l *InstrumentedLog) TouchedStorageSlots(addr types.Address) []types.Hash {
	return l.inner.TouchedStorageSlots(addr)
}

func (l *InstrumentedLog) Seal() *vsal.SealedLog { return l.inner.Seal() }

func (l *InstrumentedLog) countAbort(err error) {
	if abort.Is(err, abort.CausalityViolation) {
		l.reg.CausalityViolations.Inc()
	}
}

// MergeSealed merges a and b, observing the call's duration and result
// size against reg. This is the instrumented entry point the aggregation
// pipeline should call instead of SealedLog.Merge directly.
func MergeSealed(reg *Registry, a, b *vsal.SealedLog) (*vsal.SealedLog, error) {
	timer := prometheus.NewTimer(reg.LogMergeDuration)
	defer timer.ObserveDuration()

	merged, err := a.Merge(b)
	if err == nil {
		reg.LogMergeSize.Observe(float64(len(merged.Accounts) + len(merged.Storage) + len(merged.BlockHashes)))
	} else {
		reg.CausalityViolations.Inc()
	}
	return merged, err
}
