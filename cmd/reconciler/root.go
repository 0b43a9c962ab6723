/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joyfund/waitlist-reconciler/internal/system/config"
	"github.com/joyfund/waitlist-reconciler/internal/system/constants"
	"github.com/joyfund/waitlist-reconciler/internal/system/log"
)

type rootOptions struct {
	home       string
	configFile string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:     "reconciler",
		Short:   "JoyFund waitlist reconciler",
		Version: version,
		Long: `Merges every waitlist source collection into the canonical, deduplicated
waitlist collection. Runs are idempotent: re-running never creates duplicate rows.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.home, "home", "", "reconciler home directory (default is the working directory)")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", constants.DefaultConfigFile, "deployment configuration file, relative to --home")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides log.log_level)")

	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newImportCommand())
	return rootCmd
}

// setup loads .env files and configuration, initializes logging and validates the
// configuration. It performs no store I/O.
func setup(opts *rootOptions) error {
	home := opts.home
	if home == "" {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		home = dir
	}

	envFiles, err := filepath.Glob(filepath.Join(home, constants.EnvFilePattern))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	conf, err := config.LoadConfig(home, opts.configFile)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		conf.Log.LogLevel = opts.logLevel
	}
	if err := log.Init(conf.Log.LogLevel); err != nil {
		return err
	}
	if err := config.Validate(conf); err != nil {
		return err
	}
	return config.InitializeRuntime(home, conf)
}
