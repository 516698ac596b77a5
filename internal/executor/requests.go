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

import "sort"

// Requests is a set of executor resource requests, used to build the executor half of a resource
// profile. Setters return the receiver so calls can be chained. The first failing call is recorded,
// every later call is ignored and the failure is returned by Err and Requests.
type Requests struct {
	sink Sink
	err  error
}

// NewLocalRequests creates an empty set of requests kept in memory
func NewLocalRequests() *Requests {
	return NewRequests(NewLocalSink(), nil)
}

// NewRequests creates a set of requests on top of sink, replaying existing into it first. Memory
// amounts are replayed as byte strings, which are exact up to 2^53 bytes.
func NewRequests(sink Sink, existing map[string]Request) *Requests {
	r := &Requests{sink: sink}
	keys := make([]string, 0, len(existing))
	for key := range existing {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		r.replay(key, existing[key])
	}
	return r
}

func (r *Requests) replay(key string, req Request) {
	switch key {
	case MemoryKey:
		r.Memory(FormatMemory(req.Amount()))
	case MemoryOverheadKey:
		r.MemoryOverhead(FormatMemory(req.Amount()))
	case PysparkMemoryKey:
		r.PysparkMemory(FormatMemory(req.Amount()))
	case CoresKey:
		r.Cores(int(req.Amount()))
	default:
		r.Resource(req.ResourceName(), req.Amount(), req.DiscoveryScript(), req.Vendor())
	}
}

// Memory sets the executor heap memory, e.g. "4g"
func (r *Requests) Memory(amount string) *Requests {
	return r.apply(func(s Sink) error { return s.Memory(amount) })
}

// MemoryOverhead sets the executor memory overhead, e.g. "512m"
func (r *Requests) MemoryOverhead(amount string) *Requests {
	return r.apply(func(s Sink) error { return s.MemoryOverhead(amount) })
}

// PysparkMemory sets the memory available to python workers, e.g. "1g"
func (r *Requests) PysparkMemory(amount string) *Requests {
	return r.apply(func(s Sink) error { return s.PysparkMemory(amount) })
}

// Cores sets the number of cores per executor
func (r *Requests) Cores(amount int) *Requests {
	return r.apply(func(s Sink) error { return s.Cores(amount) })
}

// Resource sets a custom resource. discoveryScript and vendor may be left empty.
func (r *Requests) Resource(resourceName string, amount int64, discoveryScript, vendor string) *Requests {
	return r.apply(func(s Sink) error { return s.Resource(resourceName, amount, discoveryScript, vendor) })
}

// Err returns the first error encountered while declaring requests
func (r *Requests) Err() error {
	return r.err
}

// Requests returns the declared requests keyed by resource name
func (r *Requests) Requests() (map[string]Request, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sink.Requests()
}

func (r *Requests) apply(fn func(Sink) error) *Requests {
	if r.err == nil {
		r.err = fn(r.sink)
	}
	return r
}
