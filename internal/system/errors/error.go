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

package errors

import "fmt"

type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
}

// ClientError is returned for problems the operator can fix: configuration, input files.
type ClientError struct {
	ErrorMessage
}

// ServerError is returned when the store or another collaborator fails.
type ServerError struct {
	ErrorMessage
	Err error
}

func (e *ServerError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("[%s] %s %s: %v", e.Code, e.Message, e.Description, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("[%s] %s %s", e.Code, e.Message, e.Description)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}

// NewServerErrorf builds a ServerError whose description is formatted from the arguments.
func NewServerErrorf(msg ErrorMessage, cause error, format string, args ...interface{}) *ServerError {
	msg.Description = fmt.Sprintf(format, args...)
	return NewServerError(msg, cause)
}

func NewClientError(msg ErrorMessage) *ClientError {
	return &ClientError{
		ErrorMessage: msg,
	}
}

// NewClientErrorf builds a ClientError whose description is formatted from the arguments.
func NewClientErrorf(msg ErrorMessage, format string, args ...interface{}) *ClientError {
	msg.Description = fmt.Sprintf(format, args...)
	return NewClientError(msg)
}

func NewServerErrorWithTraceID(msg ErrorMessage, cause error, traceID string) *ServerError {
	msg.TraceID = traceID
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}
