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

// Sink receives executor resource requests. Requests are either kept locally or forwarded to a
// cluster manager, see LocalSink and DelegatingSink.
type Sink interface {
	Memory(amount string) error
	MemoryOverhead(amount string) error
	PysparkMemory(amount string) error
	Cores(amount int) error
	Resource(resourceName string, amount int64, discoveryScript, vendor string) error
	Requests() (map[string]Request, error)
}

// LocalSink keeps executor resource requests in memory, keyed by resource name
type LocalSink struct {
	requests map[string]Request
}

// NewLocalSink creates an empty LocalSink
func NewLocalSink() *LocalSink {
	return &LocalSink{requests: make(map[string]Request)}
}

// Memory sets the executor heap memory
func (s *LocalSink) Memory(amount string) error {
	return s.memory(MemoryKey, amount)
}

// MemoryOverhead sets the executor memory overhead
func (s *LocalSink) MemoryOverhead(amount string) error {
	return s.memory(MemoryOverheadKey, amount)
}

// PysparkMemory sets the memory available to python workers
func (s *LocalSink) PysparkMemory(amount string) error {
	return s.memory(PysparkMemoryKey, amount)
}

// Cores sets the number of cores per executor
func (s *LocalSink) Cores(amount int) error {
	s.requests[CoresKey] = NewRequest(CoresKey, int64(amount), "", "")
	return nil
}

// Resource sets a custom resource such as gpu
func (s *LocalSink) Resource(resourceName string, amount int64, discoveryScript, vendor string) error {
	s.requests[resourceName] = NewRequest(resourceName, amount, discoveryScript, vendor)
	return nil
}

// Requests returns the requests declared so far. The returned map is not a copy.
func (s *LocalSink) Requests() (map[string]Request, error) {
	return s.requests, nil
}

func (s *LocalSink) memory(key, amount string) error {
	bytes, err := ParseMemory(amount)
	if err != nil {
		return err
	}
	s.requests[key] = NewRequest(key, bytes, "", "")
	return nil
}
