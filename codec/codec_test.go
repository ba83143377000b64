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
	"testing"
)

func TestGobCodecRoundTrip(t *testing.T) {
	c := NewGobCodec[string]()
	encoded, err := c.Encode("hello world")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := c.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded != "hello world" {
		t.Fatalf("round trip changed the value: got %q", decoded)
	}
}

func TestGobCodecDeterministic(t *testing.T) {
	c := NewGobCodec[int]()
	a, err := c.Encode(42)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	b, err := c.Encode(42)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("equal values should encode to byte-equal output")
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated: " +
		"the quick brown fox jumps over the lazy dog")

	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmSnappy, AlgorithmLZ4, AlgorithmZstd} {
		t.Run(algo.String(), func(t *testing.T) {
			comp, err := NewCompressor(algo)
			if err != nil {
				t.Fatalf("NewCompressor failed: %v", err)
			}
			compressed, err := comp.Compress(data)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			decompressed, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Fatalf("round trip changed the data for %s", algo)
			}
		})
	}
}

func TestCompressedCodecRoundTrip(t *testing.T) {
	inner := NewGobCodec[string]()
	cc, err := NewCompressedCodec[string](inner, AlgorithmZstd)
	if err != nil {
		t.Fatalf("NewCompressedCodec failed: %v", err)
	}

	encoded, err := cc.Encode("compress me please, compress me please")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := cc.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded != "compress me please, compress me please" {
		t.Fatalf("round trip changed the value: got %q", decoded)
	}
}

func TestBatchEncoding(t *testing.T) {
	entries := [][]byte{[]byte("one"), []byte(""), []byte("three")}
	encoded := EncodeBatch(entries)
	decoded, err := DecodeBatch(encoded)
	if err != nil {
		t.Fatalf("DecodeBatch failed: %v", err)
	}
	if len(decoded) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(decoded))
	}
	for i := range entries {
		if !bytes.Equal(decoded[i], entries[i]) {
			t.Fatalf("entry %d mismatch: got %q want %q", i, decoded[i], entries[i])
		}
	}
}
