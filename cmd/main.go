/*
 * This file is part of word-to-podcast (https://github.com/SayanNandyRIL/word-to-podcast).
 * Copyright (C) 2025 Sayan Nandy
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/SayanNandyRIL/word-to-podcast/internal/config"
	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
	"github.com/SayanNandyRIL/word-to-podcast/internal/server"
)

func main() {
	// Load .env if present; real environment always wins
	_ = godotenv.Load()

	// Initialize structured logging
	if err := logging.Initialize(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		logging.LogError(err, "Invalid configuration")
		log.Fatalf("Invalid configuration: %v", err)
	}

	comp, err := server.NewComponents(cfg)
	if err != nil {
		logging.LogError(err, "Failed to wire components")
		log.Fatalf("Failed to wire components: %v", err)
	}

	srv := server.New(cfg, comp)

	logging.Sugar.Infow("🚀 word-to-podcast starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"db_path", cfg.Database.Path,
		"nats_enabled", cfg.NATS.Enabled,
	)

	// Shut down cleanly on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if err := srv.Stop(); err != nil {
			logging.LogError(err, "Shutdown failed")
		}
	}()

	if err := srv.Start(); err != nil {
		logging.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
