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

package provider

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joyfund/waitlist-reconciler/internal/system/config"
	"github.com/joyfund/waitlist-reconciler/internal/system/constants"
	"github.com/joyfund/waitlist-reconciler/internal/system/database/client"
	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
	"github.com/joyfund/waitlist-reconciler/internal/system/log"
)

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient(ctx context.Context) (client.DBClientInterface, error)
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct {
	conf config.MongoDBConfig
}

// NewDBProvider creates a provider from the runtime configuration.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{conf: config.GetRuntime().Config.MongoDB}
}

// NewDBProviderWithConfig creates a provider from an explicit configuration.
func NewDBProviderWithConfig(conf config.MongoDBConfig) DBProviderInterface {

	return &DBProvider{conf: conf}
}

// GetDBClient connects to the configured deployment and verifies it is reachable.
func (d *DBProvider) GetDBClient(ctx context.Context) (client.DBClientInterface, error) {

	if d.conf.URI == "" {
		return nil, errors2.NewClientError(errors2.MISSING_STORE_URI)
	}

	opts := options.Client().
		ApplyURI(d.conf.URI).
		SetAppName("joyfund-waitlist-reconciler")
	if d.conf.Timeout > 0 {
		opts.SetServerSelectionTimeout(d.conf.Timeout).SetConnectTimeout(d.conf.Timeout)
	}

	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors2.NewServerError(errors2.CONNECT_STORE, fmt.Errorf("failed to connect to database: %w", err))
	}

	dbClient := client.NewDBClient(mongoClient, d.conf.Database)
	pingCtx, cancel := context.WithTimeout(ctx, d.pingTimeout())
	defer cancel()
	if err := dbClient.Ping(pingCtx); err != nil {
		if closeErr := dbClient.Close(context.Background()); closeErr != nil {
			log.GetLogger().Debug("Failed to close client after ping failure", log.Error(closeErr))
		}
		return nil, errors2.NewServerError(errors2.CONNECT_STORE, fmt.Errorf("failed to ping database: %w", err))
	}

	log.GetLogger().Debug("Connected to document store", log.String("database", d.conf.Database))
	return dbClient, nil
}

func (d *DBProvider) pingTimeout() time.Duration {
	if d.conf.Timeout > 0 {
		return d.conf.Timeout
	}
	return constants.DefaultOperationTimeout
}
