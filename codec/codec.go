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

package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Codec is the opaque encode/decode contract of spec.md §1. Any
// implementation is admissible as long as Decode(Encode(v)) == v and
// structurally equal values encode to byte-equal output.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// GobCodec is the default Codec, using encoding/gob. gob's wire format is
// deterministic for the non-map, non-pointer-cycle leaf values this
// module encodes (element types of a List/Queue/Set), which is what
// makes object hashing by encoded bytes sound.
type GobCodec[T any] struct{}

// NewGobCodec returns a GobCodec for T.
func NewGobCodec[T any]() GobCodec[T] {
	return GobCodec[T]{}
}

func (GobCodec[T]) Encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("codec: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (GobCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return v, fmt.Errorf("codec: gob decode: %w", err)
	}
	return v, nil
}

// CompressedCodec wraps an inner Codec with a Compressor, so object bytes
// are compressed before they reach the backing store and decompressed
// transparently on read.
type CompressedCodec[T any] struct {
	inner      Codec[T]
	compressor *Compressor
}

// NewCompressedCodec wraps inner with compression using the given
// algorithm.
func NewCompressedCodec[T any](inner Codec[T], algorithm Algorithm) (*CompressedCodec[T], error) {
	c, err := NewCompressor(algorithm)
	if err != nil {
		return nil, err
	}
	return &CompressedCodec[T]{inner: inner, compressor: c}, nil
}

func (c *CompressedCodec[T]) Encode(v T) ([]byte, error) {
	raw, err := c.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return c.compressor.Compress(raw)
}

func (c *CompressedCodec[T]) Decode(data []byte) (T, error) {
	var zero T
	raw, err := Decompress(data)
	if err != nil {
		return zero, err
	}
	return c.inner.Decode(raw)
}
