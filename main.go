package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardcraft/editor"
	"cardcraft/handlers/api/cards"
	"cardcraft/handlers/api/editorapi"
	"cardcraft/stores"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func setupRouter(session *editor.Session, canvas *editor.Canvas) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "Host", "Connection", "Accept-Encoding", "Accept-Language", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cards.HandleList(session))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cards.HandleGet(session))
				r.Delete("/", cards.HandleDelete(session))
				r.Post("/views", cards.HandleIncrementViews(session))
				r.Post("/duplicate", cards.HandleDuplicate(session))
			})
		})

		r.Route("/editor", func(r chi.Router) {
			r.Post("/open", editorapi.HandleOpen(session))
			r.Get("/", editorapi.HandleState(session))
			r.Post("/save", editorapi.HandleSave(session))
			r.Post("/reset", editorapi.HandleReset(session))
			r.Put("/title", editorapi.HandleSetTitle(session))
			r.Put("/background", editorapi.HandleSetBackground(session))
			r.Post("/select", editorapi.HandleSelect(session))
			r.Post("/events", editorapi.HandleCanvasEvent(session, canvas))
			r.Route("/elements", func(r chi.Router) {
				r.Post("/", editorapi.HandleAddElement(session))
				r.Route("/{id}", func(r chi.Router) {
					r.Patch("/", editorapi.HandleUpdateElement(session))
					r.Delete("/", editorapi.HandleRemoveElement(session))
					r.Post("/front", editorapi.HandleBringToFront(session))
					r.Post("/back", editorapi.HandleSendToBack(session))
				})
			})
		})
	})

	return r
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	store := stores.GetStore()
	session := editor.NewSession(store)
	canvas := editor.NewCanvas(session)

	r := setupRouter(session, canvas)

	srv := &http.Server{
		Addr:    *listenAddress,
		Handler: r,
	}

	go func() {
		logrus.WithField("addr", *listenAddress).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}
