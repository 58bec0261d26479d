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

package account

// Download is one entry of the downloads menu.
type Download struct {
	Name string
	Path string
}

// DownloadList is what the downloads menu shows.
type DownloadList struct {
	Available bool
	Items     []Download
	Notice    string
}

var downloads = []Download{
	{Name: "Utilities", Path: "/downloads/utils.zip"},
	{Name: "User Manual", Path: "/downloads/UTM-N1_User_Manual.zip"},
}

// Downloads returns the download links when logged in, and the not-logged-in notice otherwise.
func Downloads(state SessionState) DownloadList {
	if !state.IsLoggedIn() {
		return DownloadList{Notice: "[Not logged in]"}
	}

	items := make([]Download, len(downloads))
	copy(items, downloads)

	return DownloadList{Available: true, Items: items}
}
