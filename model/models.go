// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelInfo contains display metadata about a product model. This is what
// the presentation layer's model selector renders.
type ModelInfo struct {
	// ID is the product model identifier used in generation requests
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Tag labels the release stage, e.g. ALPHA, PREVIEW
	Tag string `json:"tag"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// Models is the product model catalog, in display order. The first entry is
// the default selection.
var Models = []ModelInfo{
	{
		ID:          "syko-v1-alpha",
		Name:        "SykoLLM",
		Tag:         "ALPHA",
		Description: "Our fastest, most efficient model for general tasks.",
	},
	{
		ID:          "syko-v1-pro",
		Name:        "SykoLLM Pro",
		Tag:         "PREVIEW",
		Description: "Enhanced reasoning capabilities for complex problems.",
	},
}

// DefaultModelID is the product model used when none is selected.
const DefaultModelID = "syko-v1-alpha"

// backingModels maps product model identifiers to the generation backend's
// real model names. The product identity is branding; the backend does the
// work.
var backingModels = map[string]string{
	"syko-v1-alpha": "gpt-4o-mini",
	"syko-v1-pro":   "gpt-4o",
}

// defaultBackingModel is used for unknown product identifiers.
const defaultBackingModel = "gpt-4o-mini"

// BackingModel resolves a product model identifier to the backend model
// name, falling back to the default for unknown ids.
func BackingModel(productID string) string {
	if backing, ok := backingModels[productID]; ok {
		return backing
	}
	return defaultBackingModel
}

// KnownModel reports whether the product catalog contains the given id.
func KnownModel(id string) bool {
	for _, m := range Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// BackingOverrides replaces mapping entries from configuration. Unknown keys
// add new entries; the catalog itself is unchanged.
func BackingOverrides(overrides map[string]string) {
	for product, backing := range overrides {
		if backing != "" {
			backingModels[product] = backing
		}
	}
}
