// Copyright (c) 2019 Palantir Technologies. All rights reserved.
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

package internal

import (
	"github.com/palantir/k8s-spark-executor-resources/internal/executor"
	v1 "k8s.io/api/core/v1"
)

// RequestSafeParams gets the safe params for an executor resource request
func RequestSafeParams(request executor.Request) map[string]interface{} {
	params := map[string]interface{}{
		"resourceName": request.ResourceName(),
		"amount":       request.Amount(),
	}
	if request.Vendor() != "" {
		params["vendor"] = request.Vendor()
	}
	return params
}

// PodSafeParams gets the safe params for a driver pod
func PodSafeParams(pod v1.Pod) map[string]interface{} {
	return PodSafeParamsFromName(pod.Name, pod.Namespace)
}

// PodSafeParamsFromName gets the safe params for a driver pod
func PodSafeParamsFromName(podName string, podNamespace string) map[string]interface{} {
	return map[string]interface{}{
		"podName":      podName,
		"podNamespace": podNamespace,
	}
}
