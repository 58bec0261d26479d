/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

var (
	// ErrDstMustBeNonNilPointer indicates that the destination must be a non-nil pointer.
	ErrDstMustBeNonNilPointer = errors.New("dst must be a non-nil pointer")
	// ErrDstMustBePointerToStruct indicates that the destination must be a pointer to a struct.
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")

	errUnsupportedEnvField = errors.New("field type cannot be set from the environment")
)

var durationType = reflect.TypeOf(models.Duration(0))

// EnvConfigLoader overlays environment variables on a config struct. A variable is named
// by the prefix followed by the upper-cased json tags of the path to the field, joined with
// underscores: UTM_POLL_BACKOFF_ENABLED sets Poll.Backoff.Enabled.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

// NewEnvConfigLoader creates an environment loader. A nil logger discards output.
func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &EnvConfigLoader{logger: log, prefix: prefix}
}

// Load applies <prefix>CONFIG_JSON when set, otherwise every matching variable.
// Malformed values fail the load and name the variable.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	if raw := os.Getenv(e.prefix + "CONFIG_JSON"); raw != "" {
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
		}

		e.logger.Info().Msg("Loaded configuration from CONFIG_JSON environment variable")

		return nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	if v.Elem().Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	applied, err := e.walk(v.Elem(), e.prefix)
	if err != nil {
		return err
	}

	e.logger.Debug().Int("applied", applied).Msg("Applied environment overrides")

	return nil
}

// walk sets the fields of v from the environment and returns how many were set.
func (e *EnvConfigLoader) walk(v reflect.Value, prefix string) (int, error) {
	var (
		applied int
		errs    []error
	)

	t := v.Type()

	for i := range t.NumField() {
		sf := t.Field(i)

		name, ok := envSegment(sf)
		if !ok {
			continue
		}

		n, err := e.bind(v.Field(i), prefix+name)
		applied += n

		if err != nil {
			errs = append(errs, err)
		}
	}

	return applied, errors.Join(errs...)
}

// bind routes one field: sections recurse, leaves read their own variable.
func (e *EnvConfigLoader) bind(field reflect.Value, name string) (int, error) {
	switch {
	case field.Kind() == reflect.Struct:
		return e.walk(field, name+"_")
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		// optional sections stay nil unless a variable addresses them
		if field.IsNil() {
			if !hasEnvWithPrefix(name + "_") {
				return 0, nil
			}

			field.Set(reflect.New(field.Type().Elem()))
		}

		return e.walk(field.Elem(), name+"_")
	}

	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, nil
	}

	if err := setFromEnv(field, raw); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	e.logger.Debug().Str("env", name).Msg("Loaded value from environment variable")

	return 1, nil
}

// envSegment returns the variable segment for an exported field with a json name.
func envSegment(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}

	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return "", false
	}

	return strings.ToUpper(strings.ReplaceAll(tag, ".", "_")), true
}

func setFromEnv(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		field.SetInt(int64(d))

		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}

		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}

		field.SetInt(i)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %w", err)
		}

		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: %s", errUnsupportedEnvField, field.Type())
		}

		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		field.Set(reflect.ValueOf(parts).Convert(field.Type()))
	default:
		return fmt.Errorf("%w: %s", errUnsupportedEnvField, field.Type())
	}

	return nil
}

func hasEnvWithPrefix(prefix string) bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}

	return false
}
