package deps

import (
	"net/http"
	"time"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/content"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/menu"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/settings"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	StorageBackend string           // backend name reported by /api/infra
	AllowedHosts   []string         // Host headers allowed to reach the API (empty = any)
	AllowedCIDRS   []string         // client IPs allowed to reach the API (empty = any)
	AllowedOrigins []string         // CORS origins, e.g. chrome-extension://<id> (empty = none)
	TrustProxy     bool             // true if running behind a trusted reverse proxy

	Storage  store.Area       // area the settings live in
	Settings *settings.Store  // load/save/watch
	Menu     *menu.Builder    // background context
	Content  *content.Context // content context driven by the API

	WriteLimit func(http.Handler) http.Handler // rate limit shared by every write endpoint
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
