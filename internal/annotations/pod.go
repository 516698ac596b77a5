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

package annotations

import (
	"encoding/json"

	"github.com/palantir/k8s-spark-executor-resources/internal/common"
	"github.com/palantir/k8s-spark-executor-resources/internal/executor"
	werror "github.com/palantir/witchcraft-go-error"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

// PodHandle is an executor.Handle that records executor resource requests on a spark driver pod, in the
// annotations the spark scheduler extender reads when reserving space for executors
type PodHandle struct {
	pod      *v1.Pod
	requests map[string]executor.RequestDetails
}

// NewPodHandle creates a PodHandle that writes to the annotations of pod. Requests already present on the
// pod are kept.
func NewPodHandle(pod *v1.Pod) (*PodHandle, error) {
	requests, err := decodeRequests(pod)
	if err != nil {
		return nil, err
	}
	return &PodHandle{pod: pod, requests: requests}, nil
}

// Memory records the executor heap memory
func (h *PodHandle) Memory(amount string) error {
	return h.memory(executor.MemoryKey, amount)
}

// MemoryOverhead records the executor memory overhead
func (h *PodHandle) MemoryOverhead(amount string) error {
	return h.memory(executor.MemoryOverheadKey, amount)
}

// PysparkMemory records the memory available to python workers
func (h *PodHandle) PysparkMemory(amount string) error {
	return h.memory(executor.PysparkMemoryKey, amount)
}

// Cores records the number of cores per executor
func (h *PodHandle) Cores(amount int) error {
	return h.set(executor.RequestDetails{ResourceName: executor.CoresKey, Amount: int64(amount)})
}

// Resource records a custom resource
func (h *PodHandle) Resource(resourceName string, amount int64, discoveryScript, vendor string) error {
	return h.set(executor.RequestDetails{
		ResourceName:    resourceName,
		Amount:          amount,
		DiscoveryScript: discoveryScript,
		Vendor:          vendor,
	})
}

// RequestsMap returns a copy of every request recorded on the pod
func (h *PodHandle) RequestsMap() (map[string]executor.RequestDetails, error) {
	result := make(map[string]executor.RequestDetails, len(h.requests))
	for key, details := range h.requests {
		result[key] = details
	}
	return result, nil
}

// Annotations returns the executor resource annotations of the pod
func (h *PodHandle) Annotations() map[string]string {
	result := map[string]string{}
	for _, a := range []string{common.ExecutorCPU, common.ExecutorMemory, common.ExecutorResources} {
		if value, ok := h.pod.Annotations[a]; ok {
			result[a] = value
		}
	}
	return result
}

func (h *PodHandle) memory(key, amount string) error {
	bytes, err := executor.ParseMemory(amount)
	if err != nil {
		return err
	}
	return h.set(executor.RequestDetails{ResourceName: key, Amount: bytes})
}

func (h *PodHandle) set(details executor.RequestDetails) error {
	h.requests[details.ResourceName] = details
	encoded, err := json.Marshal(h.requests)
	if err != nil {
		return werror.Wrap(err, "failed to marshal executor resource requests")
	}
	if h.pod.Annotations == nil {
		h.pod.Annotations = map[string]string{}
	}
	h.pod.Annotations[common.ExecutorResources] = string(encoded)
	if cores, ok := h.requests[executor.CoresKey]; ok {
		h.pod.Annotations[common.ExecutorCPU] = resource.NewQuantity(cores.Amount, resource.DecimalSI).String()
	}
	if memory, ok := h.requests[executor.MemoryKey]; ok {
		// the scheduler reserves the whole executor pod, so overhead and python memory count towards it
		total := memory.Amount + h.requests[executor.MemoryOverheadKey].Amount + h.requests[executor.PysparkMemoryKey].Amount
		h.pod.Annotations[common.ExecutorMemory] = resource.NewQuantity(total, resource.BinarySI).String()
	}
	return nil
}

func decodeRequests(pod *v1.Pod) (map[string]executor.RequestDetails, error) {
	requests := map[string]executor.RequestDetails{}
	value, ok := pod.Annotations[common.ExecutorResources]
	if !ok {
		return requests, nil
	}
	if err := json.Unmarshal([]byte(value), &requests); err != nil {
		return nil, werror.Wrap(err, "annotation does not hold executor resource requests",
			werror.SafeParam("annotation", common.ExecutorResources))
	}
	return requests, nil
}
