// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import "os"

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
