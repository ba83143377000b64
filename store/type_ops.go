/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import "github.com/firefly-oss/quark/codec"

/*
TypeOps is the vtable Go generics can't express directly: a RefStore and
Replica are generic over a composite MRDT type T (Set/Ord/List/Queue) and
its leaf element type E, but Go has no way to say "T implements
Mergeable" when T is itself a generic instantiation over E. TypeOps
carries the three operations a store needs on T — merge, decompose into
elements for ref materialization, and rebuild from elements — plus a
Codec for the leaf type, as plain fields instead of methods.
*/
type TypeOps[T any, E any] struct {
	// Merge applies T's three-way merge law.
	Merge func(lca, left, right T) T

	// ToElements decomposes a value of T into its leaf elements, in an
	// order stable enough to round-trip through FromElements.
	ToElements func(value T) []E

	// FromElements rebuilds a T from a slice of leaf elements in the
	// same order ToElements produced them.
	FromElements func(elements []E) T

	// ElemCodec encodes/decodes individual leaf elements for storage in
	// the object store; ref payloads hold only the resulting hashes.
	ElemCodec codec.Codec[E]
}
