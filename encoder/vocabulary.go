// Copyright 2026 The diffenc Authors.
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

package encoder

import (
	"fmt"
	"strings"

	"diffenc/value"
)

// stringLess orders the string hash keys PositionAssignmentAggregate uses
// internally so that index compaction is deterministic.
func stringLess(a, b string) bool { return strings.Compare(a, b) < 0 }

// validateHashable returns ErrWrongVariant (wrapped with a RowValue.Hash
// error) if any record's value is not a hashable variant (Integer or Text).
// OrdinalEncoder and OneHotEncoder's fit pass must reject Float/Vec input
// before attempting to build a vocabulary over it, per spec.md §7's
// "hashing a non-hashable variant" contract violation. CountVectorizer does
// not call this; its fit rejects every non-Text value through tokensOf.
func validateHashable(data Collection) error {
	for _, u := range data.Updates {
		if _, err := u.Data.Value.Hash(); err != nil {
			return fmt.Errorf("encoder: %w: %v", ErrWrongVariant, err)
		}
	}
	return nil
}

// hashOf returns the stable hash key for v, assuming v has already passed
// validateHashable.
func hashOf(v value.RowValue) string {
	h, _ := v.Hash()
	return h
}

// tokenize splits text on whitespace and drops empty tokens, the
// tokenization CountVectorizer and TfidfTransformer's backend share.
func tokenize(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
