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

package client

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DBClientInterface defines the interface for document store connections.
type DBClientInterface interface {
	Database() *mongo.Database
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	client   *mongo.Client
	database string
}

// NewDBClient creates a new instance of DBClient bound to the named database.
func NewDBClient(client *mongo.Client, database string) DBClientInterface {

	return &DBClient{
		client:   client,
		database: database,
	}
}

// Database returns the handle of the configured database.
func (c *DBClient) Database() *mongo.Database {

	return c.client.Database(c.database)
}

// Ping checks that the primary is reachable.
func (c *DBClient) Ping(ctx context.Context) error {

	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (c *DBClient) Close(ctx context.Context) error {

	return c.client.Disconnect(ctx)
}
