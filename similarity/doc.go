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


// Package similarity ranks stored embeddings against a query.
//
// The Searcher answers two kinds of nearest-neighbour queries over a
// populated embedding store:
//   - SearchByAccession ranks neighbours of a sequence that was already
//     embedded into the store
//   - SearchBySequence embeds a novel sequence on the fly, then ranks it
//     against the store
//
// Scores are cosine similarities computed by a linear scan over records of
// the queried embedding type. Hits come back ordered best-first, ties broken
// by accession.
package similarity
