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

package events

import (
	"context"

	"github.com/palantir/k8s-spark-scheduler-lib/pkg/resources"
	"github.com/palantir/witchcraft-go-logging/wlog/evtlog/evt2log"
	v1 "k8s.io/api/core/v1"
)

const (
	executorResourcesApplied = "foundry.spark.executor.resources.applied"
)

// EmitExecutorResourcesApplied logs an event when executor resource requests have been written to a driver pod.
// executorResources is nil when the requests do not declare both cores and memory, in which case the scheduler
// falls back to the resources spark itself annotates.
func EmitExecutorResourcesApplied(
	ctx context.Context,
	sparkAppID string,
	pod *v1.Pod,
	requestCount int,
	executorResources *resources.Resources,
) {
	values := map[string]interface{}{
		"sparkAppID":   sparkAppID,
		"podNamespace": pod.Namespace,
		"podName":      pod.Name,
		"requestCount": requestCount,
	}
	if executorResources != nil {
		values["executorCpu"] = executorResources.CPU.Value()
		values["executorMemory"] = executorResources.Memory.Value()
		values["executorNvidiaGpus"] = executorResources.NvidiaGPU.Value()
	}
	evt2log.FromContext(ctx).Event(executorResourcesApplied, evt2log.Values(values))
}
