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


// Package mailbox retrieves emails from an IMAP server and converts them
// into domain emails for search.
//
// A Client opens a fresh TLS connection per fetch, selects the requested
// folder, and downloads the newest messages up to a caller-supplied limit.
// MIME bodies are parsed concurrently on a worker pool. Connection,
// authentication and folder failures are reported as
// core.ErrSourceUnavailable; individual malformed messages are skipped
// with a warning instead of failing the fetch.
package mailbox
