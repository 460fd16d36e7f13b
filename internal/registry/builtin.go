// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

// FileModelID is the model that accepts text-file attachments by default.
const FileModelID = "amazon/nova-2-lite-v1:free"

// BuiltinEntries is the default model roster. The first entry is the
// initial selection.
var BuiltinEntries = []Entry{
	{Model: Model{ID: "mistralai/devstral-2512:free", Label: "Devstral 2", ShortLabel: "Devstral 2"}},
	{Model: Model{ID: "nex-agi/deepseek-v3.1-nex-n1:free", Label: "DeepSeek V3.1 Nex N1", ShortLabel: "DeepSeek V3.1"}},
	{
		Model:        Model{ID: FileModelID, Label: "Amazon Nova 2 Lite", ShortLabel: "Nova 2 Lite"},
		Capabilities: Capabilities{Vision: true, FileAttach: true},
	},
	{Model: Model{ID: "arcee-ai/trinity-mini:free", Label: "Arcee Trinity Mini", ShortLabel: "Trinity Mini"}},
	{Model: Model{ID: "tngtech/tng-r1t-chimera:free", Label: "TNG R1T Chimera", ShortLabel: "R1T Chimera"}},
	{Model: Model{ID: "allenai/olmo-3-32b-think:free", Label: "Olmo 3 32B Think", ShortLabel: "Olmo 3 Think"}},
	{Model: Model{ID: "kwaipilot/kat-coder-pro:free", Label: "KAT-Coder-Pro V1", ShortLabel: "KAT-Coder-Pro"}},
	{
		Model:        Model{ID: "nvidia/nemotron-nano-12b-v2-vl:free", Label: "Nemotron Nano 12B 2 VL", ShortLabel: "Nemotron 12B VL"},
		Capabilities: Capabilities{Vision: true},
	},
	{Model: Model{ID: "alibaba/tongyi-deepresearch-30b-a3b:free", Label: "Tongyi DeepResearch 30B", ShortLabel: "DeepResearch 30B"}},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(BuiltinEntries)
	if err != nil {
		panic("registry: invalid builtin entries: " + err.Error())
	}
	return c
}
