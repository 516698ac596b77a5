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
	werror "github.com/palantir/witchcraft-go-error"
)

// RequestDetails is how a cluster manager reports a single executor resource request
type RequestDetails struct {
	ResourceName    string `json:"resourceName"`
	Amount          int64  `json:"amount"`
	DiscoveryScript string `json:"discoveryScript,omitempty"`
	Vendor          string `json:"vendor,omitempty"`
}

// Handle is the resource request object of a cluster manager. Memory amounts are passed
// through unparsed, the cluster manager is responsible for interpreting them.
type Handle interface {
	Memory(amount string) error
	MemoryOverhead(amount string) error
	PysparkMemory(amount string) error
	Cores(amount int) error
	Resource(resourceName string, amount int64, discoveryScript, vendor string) error
	RequestsMap() (map[string]RequestDetails, error)
}

// DelegatingSink forwards every request to a cluster manager Handle
type DelegatingSink struct {
	handle Handle
}

// NewDelegatingSink creates a DelegatingSink backed by handle
func NewDelegatingSink(handle Handle) *DelegatingSink {
	return &DelegatingSink{handle: handle}
}

// Memory forwards the executor heap memory to the handle
func (s *DelegatingSink) Memory(amount string) error {
	return wrapHandleErr(s.handle.Memory(amount), MemoryKey)
}

// MemoryOverhead forwards the executor memory overhead to the handle
func (s *DelegatingSink) MemoryOverhead(amount string) error {
	return wrapHandleErr(s.handle.MemoryOverhead(amount), MemoryOverheadKey)
}

// PysparkMemory forwards the python worker memory to the handle
func (s *DelegatingSink) PysparkMemory(amount string) error {
	return wrapHandleErr(s.handle.PysparkMemory(amount), PysparkMemoryKey)
}

// Cores forwards the number of cores per executor to the handle
func (s *DelegatingSink) Cores(amount int) error {
	return wrapHandleErr(s.handle.Cores(amount), CoresKey)
}

// Resource forwards a custom resource to the handle
func (s *DelegatingSink) Resource(resourceName string, amount int64, discoveryScript, vendor string) error {
	return wrapHandleErr(s.handle.Resource(resourceName, amount, discoveryScript, vendor), resourceName)
}

// Requests queries the handle and converts its records into a fresh map
func (s *DelegatingSink) Requests() (map[string]Request, error) {
	details, err := s.handle.RequestsMap()
	if err != nil {
		return nil, werror.Wrap(err, "failed to query executor resource requests")
	}
	result := make(map[string]Request, len(details))
	for key, d := range details {
		result[key] = NewRequest(d.ResourceName, d.Amount, d.DiscoveryScript, d.Vendor)
	}
	return result, nil
}

func wrapHandleErr(err error, resourceName string) error {
	if err == nil {
		return nil
	}
	return werror.Wrap(err, "cluster manager rejected executor resource request", werror.SafeParam("resourceName", resourceName))
}
