// Package profiling starts optional pprof and Pyroscope profilers.
package profiling

import (
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/yujin9907/cloud-naitive/infrastructure/logger"
)

const (
	defaultPprofPort       = "6060"
	pprofReadHeaderTimeout = 5 * time.Second
)

// Config controls both profilers. Everything is off by default.
type Config struct {
	PprofEnabled     bool   `env:"ENABLE_PROFILING"            yaml:"pprof_enabled"`
	PprofPort        string `env:"PPROF_PORT"                  yaml:"pprof_port"`
	PyroscopeEnabled bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"pyroscope_enabled"`
	PyroscopeURL     string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_url"`
	Environment      string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.PprofPort == "" {
		c.PprofPort = defaultPprofPort
	}
	if c.PyroscopeURL == "" {
		c.PyroscopeURL = "http://pyroscope:4040"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// NewPprofHandler returns a mux serving the /debug/pprof/ endpoints.
func NewPprofHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartPprofServer serves pprof on localhost in the background. The returned
// server is nil when pprof is disabled.
func StartPprofServer(cfg Config, log logger.Logger) *http.Server {
	if !cfg.PprofEnabled {
		return nil
	}
	cfg.SetDefaults()

	// localhost only; pprof must not be reachable from outside the pod.
	srv := &http.Server{
		Addr:              net.JoinHostPort("localhost", cfg.PprofPort),
		Handler:           NewPprofHandler(),
		ReadHeaderTimeout: pprofReadHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()

	return srv
}
