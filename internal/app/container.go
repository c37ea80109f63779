package app

import (
	"context"
	"io"
	"net/http"

	"github.com/doeshing/irisform/internal/application/doctor"
	"github.com/doeshing/irisform/internal/application/form"
	"github.com/doeshing/irisform/internal/application/history"
	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/infrastructure/config"
	"github.com/doeshing/irisform/internal/infrastructure/metrics"
	"github.com/doeshing/irisform/internal/infrastructure/predict"
	"github.com/doeshing/irisform/internal/infrastructure/storage"
	"github.com/doeshing/irisform/internal/pkg/logger"
	"github.com/doeshing/irisform/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         ports.Logger
	Storage        ports.Storage
	History        *history.Manager
	Predictor      *predict.HTTPClient
	Metrics        *metrics.PromSink
	DoctorService  *doctor.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	store := storage.New(cfg, log)
	historyManager := history.NewManager(store, log)

	sink, err := metrics.NewPromSink()
	if err != nil {
		return nil, err
	}

	predictor := predict.NewHTTPClient(cfg.Endpoint.URL, nil, cfg.RequestTimeout(), log)

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Storage:        store,
		History:        historyManager,
		HTTPClient:     &http.Client{Timeout: cfg.RequestTimeout()},
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Storage:        store,
		History:        historyManager,
		Predictor:      predictor,
		Metrics:        sink,
		DoctorService:  doctorService,
	}, nil
}

// NewFormController builds a controller for one surface. Each surface owns
// its controller; the history storage is shared.
func (c *Container) NewFormController(alerter ports.Alerter, onSubmitControl func(render.SubmitControlView)) (*form.Controller, error) {
	return form.NewController(form.Deps{
		Predictor:       c.Predictor,
		History:         c.History,
		Alerter:         alerter,
		Metrics:         c.Metrics,
		Logger:          c.Logger,
		TimestampLayout: c.Config.TimestampLayout(),
		OnSubmitControl: onSubmitControl,
	})
}

// Close releases the storage handle.
func (c *Container) Close() error {
	if closer, ok := c.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
