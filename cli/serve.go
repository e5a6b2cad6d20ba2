package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gitrec/gitrec-companion/controller"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered fragments to the browser content script",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, currentRateLimiter(*cfg))
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(a)
		},
	}
}

func serve(a *app) error {
	apiController := controller.NewAPIController(*a.config, a.companion, a.preferences, a.sessions)

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	server := &http.Server{
		Addr:    ":" + a.config.API.ListenPort,
		Handler: router,
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:  a.config.API.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT"},
			AllowHeaders:  []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With", controller.SessionHeader},
			ExposeHeaders: []string{controller.SessionHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	controller.Register(router.Group(""), apiController)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()

	go a.sessions.RunJanitor(janitorCtx, func(removed int) {
		log.WithField("removed", removed).Debug("idle tab sessions dropped")
	})

	// start with configuration
	go func() {
		log.Info("server listening on port " + a.config.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	// the server has 15 seconds to finish the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	log.Info("Application stopped gracefully !")
	return nil
}
