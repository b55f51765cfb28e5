// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package entitree stores heterogeneous entity records in typed pools and
// lets callers look up, by runtime type identity, any sub-aggregate
// reachable from a record's root at a statically known byte offset.
//
// Records are organized as hierarchical aggregates rather than flat, named
// slots: a record type publishes a metadata tree (see MetadataNode)
// describing which of its sub-regions are extractable and at what byte
// offset, and a World resolves that tree once per record type into an
// Extractor before any entity of that type is stored.
//
// The package is built for highly concurrent simulation/game-server
// workloads: many goroutines may add, remove, and query entities at once.
// Pools are locked independently of one another (see pool.go), and queries
// snapshot their result set under short-lived read-locks so the World
// never blocks on a consumer iterating a prior query's results.
package entitree
