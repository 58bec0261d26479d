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

package poller

import "errors"

var (
	errFetcherRequired = errors.New("fetcher is required")
	errInvalidInterval = errors.New("poll interval must be positive")
	errInvalidBackoff  = errors.New("backoff max interval must not be below initial interval")
	errNilSnapshot     = errors.New("fetcher returned no snapshot")
	errStopTimedOut    = errors.New("timed out waiting for poll loop to stop")
)
