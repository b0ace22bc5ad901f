// Copyright 2025 The FANTASIA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package openai implements embed.Client against OpenAI-compatible
// embedding APIs.
//
// Any server speaking the OpenAI embeddings protocol works: Ollama,
// LocalAI, vLLM, llama.cpp-server, or the hosted OpenAI API itself. Hosts
// without a /v1 suffix get one appended, since OpenAI-compatible servers
// mount the API there.
package openai
