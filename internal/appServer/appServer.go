// launching the server, storage, ffmpeg runner, kafka
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/gif-converter/config"
	"github.com/ds124wfegd/gif-converter/internal/pkg/ffmpeg"
	"github.com/ds124wfegd/gif-converter/internal/pkg/kafka"
	"github.com/ds124wfegd/gif-converter/internal/pkg/processor"
	"github.com/ds124wfegd/gif-converter/internal/pkg/storage"
	"github.com/ds124wfegd/gif-converter/internal/service"
	"github.com/ds124wfegd/gif-converter/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = newHTTPServer(cfg, handler)
	return s.httpServer.ListenAndServe()
}

// newHTTPServer has no ReadTimeout and a WriteTimeout of server.timeout
// (0 by default): a conversion may run as long as app.conversion_timeout allows.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewHandler builds every component from cfg and returns the HTTP router
// together with the event producer the caller must close.
func NewHandler(cfg *config.Config) (http.Handler, kafka.Producer, error) {
	uploads := storage.NewFileStorage(cfg.App.UploadDir)
	temp := storage.NewFileStorage(cfg.App.TempDir)
	public := storage.NewFileStorage(cfg.App.PublicDir)
	for _, s := range []storage.FileStorage{uploads, temp, public} {
		if err := storage.Ensure(s); err != nil {
			return nil, nil, err
		}
	}

	var poster processor.PosterProcessor
	if cfg.App.Poster.Enabled {
		poster = processor.NewPosterProcessor(cfg.App.Poster.Width, cfg.App.Poster.Height)
	}

	producer := kafka.NewProducer(cfg.Kafka)
	runner := ffmpeg.NewRunner(cfg.FFmpeg.Path)
	convService := service.NewConversionService(cfg.App, runner, uploads, temp, public, producer, poster)
	convHandler := transport.NewConversionHandler(convService, public)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	return transport.InitRoutes(convHandler, cfg.App.MaxUploadSize), producer, nil
}

func NewServer(cfg *config.Config) {

	handler, producer, err := NewHandler(cfg)
	if err != nil {
		logrus.Fatalf("error occured while preparing directories: %s", err.Error())
	}
	defer producer.Close()

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Printf("Server running at %s", cfg.App.BaseURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
