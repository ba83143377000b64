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

package crdt

import (
	"fmt"
	"math/rand"
	"testing"
)

// TestThreeReplicaDocumentConvergence covers scenario S4: three replicas
// start from the same 3-character document, each runs 100 rounds
// inserting 10 random characters into its own copy and then merging with
// the previous replica, and a final all-pairs merge must leave every
// replica holding the same 3 + 3*100*10 = 3003 character string.
func TestThreeReplicaDocumentConvergence(t *testing.T) {
	collator := DefaultCollator{}
	less := CharLess(collator)

	seed := []Char{NewChar("a"), NewChar("b"), NewChar("c")}
	lca := FromSlice(less, seed)

	replicas := make([]*List[Char], 3)
	for i := range replicas {
		replicas[i] = FromSlice(less, seed)
	}

	r := rand.New(rand.NewSource(42))
	alphabet := "defghijklmnopqrstuvwxyz0123456789"

	const rounds = 100
	const perRound = 10

	for round := 0; round < rounds; round++ {
		for i := range replicas {
			repl := replicas[i]
			for k := 0; k < perRound; k++ {
				pos := r.Intn(repl.Len() + 1)
				ch := NewChar(fmt.Sprintf("%c%d.%d.%d", alphabet[r.Intn(len(alphabet))], i, round, k))
				repl.Insert(pos, ch)
			}
			prev := replicas[(i+2)%len(replicas)]
			replicas[i] = MergeList(lca, repl, prev)
		}
	}

	// Final all-pairs merge.
	final := replicas[0]
	for i := 1; i < len(replicas); i++ {
		final = MergeList(lca, final, replicas[i])
	}
	for i := range replicas {
		replicas[i] = MergeList(lca, replicas[i], final)
	}

	wantLen := 3 + 3*rounds*perRound
	for i, repl := range replicas {
		if repl.Len() != wantLen {
			t.Fatalf("replica %d has length %d, want %d", i, repl.Len(), wantLen)
		}
	}

	first := JoinChars(replicas[0].ToSlice())
	for i := 1; i < len(replicas); i++ {
		got := JoinChars(replicas[i].ToSlice())
		if got != first {
			t.Fatalf("replica %d diverged from replica 0 after convergence", i)
		}
	}
}
