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


// Package api exposes mail fetching and search over HTTP.
//
// Every request carries its own IMAP credentials; the server keeps no
// account state between requests. Domain errors map onto statuses:
// invalid requests are 400, an unreachable mail server is 502, and an
// unavailable embedding model is 503.
package api
