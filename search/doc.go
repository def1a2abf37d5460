// Copyright 2025 Poiesic Systems
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


// Package search ranks emails against a query.
//
// The Searcher type implements the semantic pipeline: per-email body
// normalization, one batched embedding call covering the query and every
// document, cosine similarity scoring, and threshold/top-k ranking with
// score categories. For a fixed corpus, request, and loaded model the
// pipeline is deterministic.
//
// MatchKeyword provides the separate exact-match capability with
// stop-word filtering; the semantic pipeline never falls back to it.
package search
