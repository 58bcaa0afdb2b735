package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/plantdoc/PlantRAG/internal/adapter/utils"
	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/handlers"
	"github.com/plantdoc/PlantRAG/internal/middleware"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, ragHandler *handlers.RagHandler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/health", middleware.Wrap(handlers.GetHandler))
	r.Router.Post("/rag/direct", middleware.Wrap(ragHandler.DirectHandler))
	r.Router.Post("/rag/stream", middleware.Wrap(ragHandler.DirectStreamHandler))
	r.Router.Post("/rag", middleware.Wrap(ragHandler.ConversationHandler))
	r.Router.Post("/stream", middleware.Wrap(ragHandler.ConversationStreamHandler))

	//no WriteTimeout, streamed answers outlive any fixed deadline
	server = &http.Server{
		Addr:        listenAddr,
		Handler:     r.Router,
		ReadTimeout: config.ReadTimeout,
		IdleTimeout: config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
