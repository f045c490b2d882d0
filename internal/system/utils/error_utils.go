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

package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const unknownFieldPrefix = "json: unknown field "

// HandleDecodeError turns a JSON decoding error into a description naming the offending part of
// the resourceName request body.
func HandleDecodeError(err error, resourceName string) string {
	if err == nil {
		return ""
	}
	cause := errors.Cause(err)

	if errors.Is(cause, io.EOF) {
		return fmt.Sprintf("Request body for %s is empty.", resourceName)
	}
	if errors.Is(cause, io.ErrUnexpectedEOF) {
		return fmt.Sprintf("Request body for %s is truncated.", resourceName)
	}
	if strings.HasPrefix(cause.Error(), unknownFieldPrefix) {
		field := strings.TrimPrefix(cause.Error(), unknownFieldPrefix)
		return fmt.Sprintf("Unknown field %s in %s request body.", field, resourceName)
	}

	var syntaxError *json.SyntaxError
	if errors.As(cause, &syntaxError) {
		return fmt.Sprintf("Malformed JSON in %s request body at offset %d.", resourceName, syntaxError.Offset)
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(cause, &typeError) {
		switch {
		case typeError.Field != "":
			return fmt.Sprintf("Invalid type for field '%s' in %s request body: expected %s.",
				typeError.Field, resourceName, typeError.Type.String())
		case typeError.Value == "object":
			return fmt.Sprintf("Request body for %s must be a JSON array.", resourceName)
		case typeError.Value == "array":
			return fmt.Sprintf("Request body for %s must be a JSON object.", resourceName)
		}
	}

	var parseError *time.ParseError
	if errors.As(cause, &parseError) {
		return fmt.Sprintf("Invalid date '%s' in %s request body: use RFC 3339.",
			strings.Trim(parseError.Value, `"`), resourceName)
	}

	return fmt.Sprintf("Invalid JSON payload for %s.", resourceName)
}
