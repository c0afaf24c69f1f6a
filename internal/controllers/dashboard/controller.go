package dashboard

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/voltview/internal/log"
	"github.com/chrissnell/voltview/internal/voltage"
	"github.com/chrissnell/voltview/pkg/config"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller serves the voltage analysis dashboard
type Controller struct {
	ctx             context.Context
	wg              *sync.WaitGroup
	configProvider  config.ConfigProvider
	dashboardConfig config.DashboardData
	Server          http.Server
	FS              fs.FS
	Series          voltage.Series
	SourceName      string
	logger          *zap.SugaredLogger
	handlers        *Handlers

	mu       sync.RWMutex
	defaults voltage.Params
}

// NewController creates a dashboard controller over an already loaded series
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, series voltage.Series, sourceName string, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		Series:         series,
		SourceName:     sourceName,
		logger:         logger,
	}

	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %v", err)
	}
	cfgData.ApplyDefaults()
	ctrl.dashboardConfig = cfgData.Dashboard

	ctrl.defaults = cfgData.Analysis.Params()
	if err := ctrl.defaults.Validate(); err != nil {
		logger.Warnf("configured analysis defaults rejected (%v); using built-in defaults", err)
		ctrl.defaults = voltage.DefaultParams()
	}

	ctrl.handlers = NewHandlers(ctrl)
	ctrl.FS = GetAssets()

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.dashboardConfig.ListenAddr, ctrl.dashboardConfig.Port)
	ctrl.Server.Handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(handlers.CompressHandler(ctrl.setupRouter()))
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the dashboard server
func (c *Controller) StartController() error {
	log.Infof("Starting dashboard on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.dashboardConfig.Cert != "" && c.dashboardConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.dashboardConfig.Cert, c.dashboardConfig.Key); err != http.ErrServerClosed {
				log.Errorf("dashboard server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("dashboard server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the dashboard...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Defaults returns the parameters used when a request leaves one unset
func (c *Controller) Defaults() voltage.Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults
}

func (c *Controller) setDefaults(p voltage.Params) {
	c.mu.Lock()
	c.defaults = p
	c.mu.Unlock()
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	// API endpoints
	router.HandleFunc("/api/params", c.handlers.GetParams).Methods(http.MethodGet)
	router.HandleFunc("/api/analysis", c.handlers.GetAnalysis).Methods(http.MethodGet)
	router.HandleFunc("/api/summary", c.handlers.GetSummary).Methods(http.MethodGet)
	router.HandleFunc("/api/tables/{name}", c.handlers.GetTable).Methods(http.MethodGet)
	router.HandleFunc("/api/defaults", c.handlers.PutDefaults).Methods(http.MethodPut)
	router.HandleFunc("/charts/{name}.png", c.handlers.GetChart).Methods(http.MethodGet)

	// Template endpoints
	router.HandleFunc("/", c.handlers.ServeIndexTemplate).Methods(http.MethodGet)

	// Static file serving
	router.PathPrefix("/").Handler(http.FileServer(http.FS(c.FS)))

	return router
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error(v...)
}
