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

import (
	"math"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	werror "github.com/palantir/witchcraft-go-error"
)

// ParseMemory parses a size string such as "512m" or "2g" into bytes. Units are binary multiples
// and must be given explicitly, a bare number is not accepted. Besides k, m, g and t this also
// reads b and p, an optional "b" or "ib" suffix, and a single space between number and unit ("2 g").
// Amounts that do not fit in an int64 are rejected.
func ParseMemory(amount string) (int64, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, werror.Error("memory amount is empty")
	}
	if last := trimmed[len(trimmed)-1]; last >= '0' && last <= '9' {
		return 0, werror.Error("memory amount is missing a size unit", werror.SafeParam("amount", amount))
	}
	bytes, err := units.RAMInBytes(trimmed)
	if err != nil {
		return 0, werror.Wrap(err, "failed to parse memory amount", werror.SafeParam("amount", amount))
	}
	// go-units converts through float64, an out of range amount comes back wrapped or saturated
	if bytes < 0 || bytes == math.MaxInt64 {
		return 0, werror.Error("memory amount is out of range", werror.SafeParam("amount", amount))
	}
	return bytes, nil
}

// FormatMemory renders a byte count in a form ParseMemory reads back unchanged. Parsing goes through
// a float64, so only counts up to 2^53 are guaranteed to be exact.
func FormatMemory(bytes int64) string {
	return strconv.FormatInt(bytes, 10) + "b"
}
