/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/pjdagdal/member-data-service/internal/system/database/provider"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/pjdagdal/member-data-service/internal/system/managers"
	"github.com/pjdagdal/member-data-service/internal/system/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	home := getHome()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, stores, err := managers.Bootstrap(ctx, home, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start member data service: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()
	defer provider.CloseAll(context.Background())

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux, stores, cfg.Dedupe)
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger.Fatal("Failed to register the services.", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Addr.Host, cfg.Addr.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           utils.WithTrace(utils.EnableCORS(cfg.Auth.CORSAllowedOrigins, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Member data service started", log.String("address", serverAddr),
			log.String("datasource", cfg.DataSource.Type))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve requests.", log.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down member data service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", log.Error(err))
	}
}

func getHome() string {

	homeFlag := flag.String("home", "", "Path to member data service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
