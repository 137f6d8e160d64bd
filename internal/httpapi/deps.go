package httpapi

import (
	"database/sql"
	"sync/atomic"

	"golang.org/x/time/rate"

	"applyboard-engine/internal/config"
	"applyboard-engine/internal/events"
	"applyboard-engine/internal/snapshot"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub
	Sub *snapshot.Subscriber

	// CfgVal stores config.Config; hot-reloadable
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	UIStatePath string

	// ExportLimiter throttles workbook generation; nil means unlimited.
	ExportLimiter *rate.Limiter

	// lastFilter stores the previous filter fingerprint for the
	// "filters changed -> page 1" rule
	lastFilter atomic.Value
}

func (d *Deps) Config() config.Config {
	return d.CfgVal.Load().(config.Config)
}
