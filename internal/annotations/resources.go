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
	"github.com/palantir/k8s-spark-executor-resources/internal/common"
	"github.com/palantir/k8s-spark-executor-resources/internal/executor"
	"github.com/palantir/k8s-spark-scheduler-lib/pkg/resources"
	werror "github.com/palantir/witchcraft-go-error"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

const gpuResourceName = "gpu"

// ExecutorResources reads the per executor resources the spark scheduler reserves from the annotations of a driver pod
func ExecutorResources(pod *v1.Pod) (*resources.Resources, error) {
	parsedResources := map[string]resource.Quantity{}
	for _, a := range []string{common.ExecutorCPU, common.ExecutorMemory} {
		value, ok := pod.Annotations[a]
		if !ok {
			return nil, werror.Error("annotation is missing from driver", werror.SafeParam("annotation", a))
		}
		quantity, err := resource.ParseQuantity(value)
		if err != nil {
			return nil, werror.Wrap(err, "annotation does not have a parseable value",
				werror.SafeParam("annotation", a), werror.SafeParam("value", value))
		}
		parsedResources[a] = quantity
	}
	requests, err := decodeRequests(pod)
	if err != nil {
		return nil, err
	}
	executorResources := resources.Zero()
	executorResources.CPU = parsedResources[common.ExecutorCPU]
	executorResources.Memory = parsedResources[common.ExecutorMemory]
	if gpu, ok := requests[gpuResourceName]; ok && isNvidia(gpu.Vendor) {
		executorResources.NvidiaGPU = *resource.NewQuantity(gpu.Amount, resource.DecimalSI)
	}
	return executorResources, nil
}

// ExecutorRequests reads the executor resource requests recorded on a driver pod
func ExecutorRequests(pod *v1.Pod) (map[string]executor.Request, error) {
	handle, err := NewPodHandle(pod)
	if err != nil {
		return nil, err
	}
	return executor.NewDelegatingSink(handle).Requests()
}

func isNvidia(vendor string) bool {
	return vendor == "nvidia" || vendor == "nvidia.com"
}
