package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/app"
	"github.com/fieldreach/intelligence-api/internal/router"
)

var (
	// Version is the binary version (tag) + build number (CI pipeline)
	Version string
	// BuildDate is the date of build
	BuildDate string
)

func main() {
	app.InitLogger(os.Getenv("FIELDREACH_LOGGER_PRODUCTION") != "false")

	zap.L().Info("Starting Intelligence-API", zap.String("version", Version), zap.String("build_date", BuildDate))
	eng := app.Init()
	defer app.Stop()

	serverPort := viper.GetInt("SERVER_PORT")
	serverEnableTLS := viper.GetBool("SERVER_ENABLE_TLS")
	serverTLSCert := viper.GetString("SERVER_TLS_FILE_CRT")
	serverTLSKey := viper.GetString("SERVER_TLS_FILE_KEY")

	apiEnableCORS := viper.GetBool("API_ENABLE_CORS")
	apiEnableSecurity := viper.GetBool("API_ENABLE_SECURITY")
	apiEnableGatewayMode := viper.GetBool("API_ENABLE_GATEWAY_MODE")

	if !apiEnableSecurity {
		zap.L().Info("Warning: API starting in unsecured mode, be sure to set API_ENABLE_SECURITY=true in production")
	}
	if apiEnableGatewayMode {
		zap.L().Info("Server router will be started using API Gateway mode." +
			"Please ensure every request has been properly pre-verified by the auth gateway")
	}

	r := router.NewChiRouter(router.Config{
		Engine:            eng,
		EnableSecurity:    apiEnableSecurity,
		EnableCORS:        apiEnableCORS,
		EnableGatewayMode: apiEnableGatewayMode,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", serverPort),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err error
		if serverEnableTLS {
			err = srv.ListenAndServeTLS(serverTLSCert, serverTLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Server listen", zap.Error(err))
		}
	}()
	zap.L().Info("Server Started", zap.String("addr", srv.Addr))

	<-done

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		zap.L().Fatal("Server shutdown failed", zap.Error(err))
	}
	zap.L().Info("Server shutdown")
}
