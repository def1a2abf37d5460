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


// Package normalize reduces raw email bodies to plain text suitable for
// embedding.
//
// Email bodies carry markup, URLs, quoted reply chains and signature
// blocks that add noise to a semantic embedding. Clean strips all of it
// with an ordered, regex-based pipeline and bounds the output length so
// embedding cost stays predictable.
//
// The heuristics for quoted text and signatures are deliberately simple
// and can over-strip (a body line that genuinely starts with "Best
// regards" ends the text). They trade precision for never failing:
// normalization is pure and returns a string for any input.
package normalize
