package modkit

import (
	"otnanalyzer/internal/modkit/repokit"
	"otnanalyzer/internal/platform/config"
	"otnanalyzer/internal/platform/logger"
	"otnanalyzer/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the backend is disabled; modules fall back to memory
type Deps struct {
	Log   *logger.Logger
	Cfg   config.Conf
	Store *store.Store
	PG    repokit.TxRunner
	CH    store.Clickhouse
}

// DepsFrom fills the backend seams from st; a nil store leaves them nil
func DepsFrom(cfg config.Conf, log *logger.Logger, st *store.Store) Deps {
	d := Deps{Cfg: cfg, Log: log, Store: st}
	if st != nil {
		d.PG = st.PG
		d.CH = st.CH
	}
	return d
}

// Logger returns Log or the process root logger
func (d Deps) Logger() *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.Get()
}
