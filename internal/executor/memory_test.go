// Copyright (c) 2021 Palantir Technologies. All rights reserved.
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

package executor

import "testing"

func TestParseMemory(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected int64
	}{{
		name:     "megabytes",
		amount:   "512m",
		expected: 512 * 1024 * 1024,
	}, {
		name:     "gigabytes",
		amount:   "2g",
		expected: 2 * 1024 * 1024 * 1024,
	}, {
		name:     "upper case with binary suffix",
		amount:   "2Gi",
		expected: 2 * 1024 * 1024 * 1024,
	}, {
		name:     "fractional terabytes",
		amount:   "1.5t",
		expected: 3 * 512 * 1024 * 1024 * 1024,
	}, {
		name:     "kilobytes",
		amount:   "300k",
		expected: 300 * 1024,
	}, {
		name:     "explicit bytes",
		amount:   "2147483648b",
		expected: 2147483648,
	}, {
		name:     "petabytes",
		amount:   "1p",
		expected: 1024 * 1024 * 1024 * 1024 * 1024,
	}, {
		name:     "space before unit",
		amount:   "2 gib",
		expected: 2 * 1024 * 1024 * 1024,
	}, {
		name:     "largest exact byte count",
		amount:   "9007199254740992b",
		expected: 1 << 53,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bytes, err := ParseMemory(test.amount)
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if bytes != test.expected {
				t.Fatalf("expected: %v, got: %v", test.expected, bytes)
			}
		})
	}
}

func TestParseMemoryFailures(t *testing.T) {
	for _, amount := range []string{"", "  ", "2x", "2", "g", "-1g", "two gigabytes", "99999999999g", "8192p"} {
		t.Run(amount, func(t *testing.T) {
			if bytes, err := ParseMemory(amount); err == nil {
				t.Fatalf("expected parsing %q to fail, got: %v", amount, bytes)
			}
		})
	}
}

func TestFormatMemoryRoundTrips(t *testing.T) {
	for _, bytes := range []int64{0, 1, 1024, 2147483648, 5 * 1024 * 1024 * 1024 * 1024, 1 << 53} {
		parsed, err := ParseMemory(FormatMemory(bytes))
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if parsed != bytes {
			t.Fatalf("expected: %v, got: %v", bytes, parsed)
		}
	}
}
