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

/*
Collation for text element types.

Ord's merge tie-break sorts on "T's natural order" (spec.md §4.2), but for
a List[Char] backing a collaborative document, plain byte comparison of
UTF-8 is not always what an editor wants: accented characters and
locale-specific orderings need a Unicode-aware comparator. Collator gives
NewOrdWithLess / NewListWithLess a pluggable natural order, the same
contract the teacher's storage package uses for SQL column collation.
*/
package crdt

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Collator compares two strings according to some natural order.
type Collator interface {
	// Compare returns -1 if a < b, 0 if a == b, 1 if a > b.
	Compare(a, b string) int
	// Equal reports whether a and b are equal under this collation.
	Equal(a, b string) bool
}

// DefaultCollator compares strings byte-wise.
type DefaultCollator struct{}

func (DefaultCollator) Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (DefaultCollator) Equal(a, b string) bool { return a == b }

// BinaryCollator is an alias for DefaultCollator's strict byte-wise
// comparison, kept distinct so callers can name their intent explicitly.
type BinaryCollator struct{ DefaultCollator }

// UnicodeCollator compares strings with locale-aware Unicode collation,
// built on golang.org/x/text/collate.
type UnicodeCollator struct {
	collator *collate.Collator
}

// NewUnicodeCollator returns a UnicodeCollator for the given BCP 47 locale
// (e.g. "en", "de", "sv"). An unrecognized locale falls back to English.
func NewUnicodeCollator(locale string) *UnicodeCollator {
	tag := language.Make(locale)
	if tag == language.Und {
		tag = language.English
	}
	return &UnicodeCollator{collator: collate.New(tag, collate.Loose)}
}

func (c *UnicodeCollator) Compare(a, b string) int {
	return c.collator.CompareString(a, b)
}

func (c *UnicodeCollator) Equal(a, b string) bool {
	return c.collator.CompareString(a, b) == 0
}

// Less adapts a Collator into the less func that NewOrdWithLess /
// NewListWithLess expect.
func Less(c Collator) func(a, b string) bool {
	return func(a, b string) bool { return c.Compare(a, b) < 0 }
}

// Char is one NFC-normalized unit of text, used as the List element type
// for the collaborative-document scenario of spec.md §8 (S4). NewChar does
// not check that it holds a single code point; any string is accepted. It is exported
// because List[Char] is a realistic application of this library, not a
// demo program.
type Char string

// NewChar normalizes s to NFC form and returns it as a Char. Callers
// building a document typically pass single-rune strings.
func NewChar(s string) Char {
	return Char(norm.NFC.String(s))
}

func (c Char) String() string { return string(c) }

// CharLess orders Chars using the given Collator, for use with
// NewOrdWithLess[Char] / NewListWithLess[Char].
func CharLess(c Collator) func(a, b Char) bool {
	less := Less(c)
	return func(a, b Char) bool { return less(string(a), string(b)) }
}

// JoinChars concatenates a slice of Chars into a single string, e.g. to
// render a List[Char] document for display.
func JoinChars(chars []Char) string {
	var b strings.Builder
	for _, c := range chars {
		b.WriteString(string(c))
	}
	return b.String()
}
