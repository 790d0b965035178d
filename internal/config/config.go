// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads connection parameters and the provider API key
// from the process environment.
package config

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds everything needed to open the database pool and call
// the provider API.
type Config struct {
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	FMPAPIKey        string
}

func bindEnv() {
	viper.AutomaticEnv()
	for _, name := range []string{
		"POSTGRES_DB", "POSTGRES_USER", "POSTGRES_PASSWORD",
		"POSTGRES_HOST", "POSTGRES_PORT", "FMP_API_KEY",
	} {
		if err := viper.BindEnv(name); err != nil {
			log.Panic().Err(err).Str("Var", name).Msg("BindEnv failed")
		}
	}
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
}

// Load reads configuration from the environment. It fatals the way
// cmd/run.go does for a missing subscription: a pipeline with no
// database or no API key cannot do anything useful.
func Load() *Config {
	bindEnv()

	c := &Config{
		PostgresDB:       viper.GetString("POSTGRES_DB"),
		PostgresUser:     viper.GetString("POSTGRES_USER"),
		PostgresPassword: viper.GetString("POSTGRES_PASSWORD"),
		PostgresHost:     viper.GetString("POSTGRES_HOST"),
		PostgresPort:     viper.GetString("POSTGRES_PORT"),
		FMPAPIKey:        viper.GetString("FMP_API_KEY"),
	}

	if c.PostgresDB == "" || c.PostgresUser == "" {
		log.Fatal().Msg("POSTGRES_DB and POSTGRES_USER are required")
	}
	if c.FMPAPIKey == "" {
		log.Fatal().Msg("FMP_API_KEY is required")
	}

	return c
}

// DSN assembles the Postgres connection string pgxpool expects.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// MigrateDSN is the same connection string under the scheme the
// golang-migrate pgx/v5 driver registers itself under ("pgx5"), as
// opposed to the "postgres" scheme pgxpool.New expects from DSN.
func (c *Config) MigrateDSN() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}
