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


// Package embed computes protein embeddings through a registry of model
// families.
//
// Each supported family (ESM2, ProstT5, ProtT5) pairs an inference Client
// with a Shaper that rewrites raw residues into the form the family's
// tokenizer expects. Families are looked up by their numeric embedding type
// id; a Registry holds one Model per configured id and the Computer resolves
// batches against it.
//
// # Batch contract
//
// Compute accepts a batch of task items that all share one embedding type id.
// A batch that mixes ids is rejected with ErrMixedBatch before any model is
// resolved. Results come back in input order with the accession and type id
// of each item re-attached, so callers never need to correlate vectors
// themselves.
//
// # Implementation Packages
//
// Inference clients live in sub-packages:
//
//   - embed/openai: OpenAI-compatible embedding APIs via langchaingo
//   - embed/tei: Hugging Face text-embeddings-inference servers
//   - embed/mock: deterministic test doubles
//
// All clients implement the Client interface and are safe for concurrent
// use. Retry policy is deliberately absent here; callers that want retries
// wrap Compute at the dispatch layer.
package embed
