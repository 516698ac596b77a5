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

import "fmt"

const (
	// CoresKey is the key of the request for the number of cores per executor
	CoresKey = "cores"
	// MemoryKey is the key of the request for executor heap memory
	MemoryKey = "memory"
	// MemoryOverheadKey is the key of the request for executor off-heap memory overhead
	MemoryOverheadKey = "memoryOverhead"
	// PysparkMemoryKey is the key of the request for memory given to python workers of an executor
	PysparkMemoryKey = "pyspark.memory"
)

// IsMemoryKey returns whether the key is one of the reserved memory keys
func IsMemoryKey(key string) bool {
	return key == MemoryKey || key == MemoryOverheadKey || key == PysparkMemoryKey
}

// IsReservedKey returns whether the key is reserved for a builtin executor request
func IsReservedKey(key string) bool {
	return key == CoresKey || IsMemoryKey(key)
}

// Request is a single executor resource request. The amount, discovery script and vendor are
// the same values a user would set through spark.executor.resource.{resourceName}.{amount, discoveryScript, vendor}.
// Memory amounts are in bytes.
type Request struct {
	resourceName    string
	amount          int64
	discoveryScript string
	vendor          string
}

// NewRequest creates a Request. discoveryScript and vendor may be empty.
func NewRequest(resourceName string, amount int64, discoveryScript, vendor string) Request {
	return Request{
		resourceName:    resourceName,
		amount:          amount,
		discoveryScript: discoveryScript,
		vendor:          vendor,
	}
}

// ResourceName returns the name of the requested resource
func (r Request) ResourceName() string {
	return r.resourceName
}

// Amount returns the requested amount
func (r Request) Amount() int64 {
	return r.amount
}

// DiscoveryScript returns the script executors run on startup to find the addresses of the resource
func (r Request) DiscoveryScript() string {
	return r.discoveryScript
}

// Vendor returns the vendor of the resource, only used by some cluster managers
func (r Request) Vendor() string {
	return r.vendor
}

// Details returns the wire representation of the request
func (r Request) Details() RequestDetails {
	return RequestDetails{
		ResourceName:    r.resourceName,
		Amount:          r.amount,
		DiscoveryScript: r.discoveryScript,
		Vendor:          r.vendor,
	}
}

func (r Request) String() string {
	return fmt.Sprintf("ExecutorResourceRequest[name=%s, amount=%d, discoveryScript=%s, vendor=%s]",
		r.resourceName, r.amount, r.discoveryScript, r.vendor)
}
